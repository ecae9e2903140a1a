package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventconnect/internal/delivery/http/helpers"
	"eventconnect/internal/delivery/http/middleware"
	"eventconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRegisterBody = `{"email":" Ana@X.com ","first_name":"Ana","last_name":"Diaz","password":"longenough1","phone":"+15550001","role_id":1}`

func TestProfileController_Register(t *testing.T) {
	created := domain.NewProfile("ana@x.com", "Ana", "Diaz", "hash", "+15550001", "", domain.NewRole(1, "ROLE_USER"), time.Now(), time.Now())
	created.ID = 7

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{name: "success", body: validRegisterBody, wantStatus: http.StatusCreated},
		{name: "malformed JSON", body: `{"email":`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "unknown field", body: `{"email":"a@x.com","admin":true}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "invalid email", body: strings.Replace(validRegisterBody, " Ana@X.com ", "nope", 1), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantField: "email"},
		{name: "short password", body: strings.Replace(validRegisterBody, "longenough1", "short", 1), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantField: "password"},
		{name: "password over 72 bytes", body: strings.Replace(validRegisterBody, "longenough1", strings.Repeat("p", 73), 1), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantField: "password"},
		{name: "first name too long", body: strings.Replace(validRegisterBody, `"Ana"`, `"`+strings.Repeat("a", 51)+`"`, 1), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantField: "first_name"},
		{name: "phone too long", body: strings.Replace(validRegisterBody, "+15550001", strings.Repeat("1", 21), 1), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantField: "phone"},
		{name: "missing role", body: strings.Replace(validRegisterBody, `,"role_id":1`, "", 1), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantField: "role_id"},
		{name: "duplicate email", body: validRegisterBody, svcErr: domain.NewDuplicate("profile", "email", "ana@x.com"), wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "unknown role", body: validRegisterBody, svcErr: domain.NewNotFound("role", "id", int64(1)), wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "service failure", body: validRegisterBody, svcErr: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProfileService{registered: created, registerErr: tt.svcErr}
			ctrl := NewProfileController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.Register(rr, httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			var body map[string]any
			envelope := decodeEnvelope(t, rr, &body)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "ana@x.com", fake.lastInput.Email, "email is trimmed and lower-cased")
				assert.Equal(t, "ana@x.com", body["email"])
				assert.NotContains(t, body, "password_hash")
				assert.NotContains(t, body, "PasswordHash")
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			if tt.wantField != "" {
				assert.Contains(t, envelope.Error.Fields, tt.wantField)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, envelope.Error.Message, assert.AnError.Error())
			}
		})
	}
}

func TestProfileController_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		token      string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"email":"A@x.com","password":"longenough1"}`, token: "jwt", wantStatus: http.StatusOK},
		{name: "invalid credentials", body: `{"email":"a@x.com","password":"wrong"}`, svcErr: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "missing password", body: `{"email":"a@x.com"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "service failure", body: `{"email":"a@x.com","password":"x"}`, svcErr: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProfileService{token: tt.token, authErr: tt.svcErr}
			ctrl := NewProfileController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.Authenticate(rr, httptest.NewRequest(http.MethodPost, "/profiles/authenticate", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			var token TokenResponse
			envelope := decodeEnvelope(t, rr, &token)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, TokenResponse{Token: "jwt", TokenType: "Bearer"}, token)
				assert.Equal(t, "a@x.com", fake.lastEmail)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			if tt.svcErr == domain.ErrInvalidCredentials {
				assert.Equal(t, "invalid email or password", envelope.Error.Message)
			}
		})
	}
}

func TestProfileController_Me(t *testing.T) {
	profile := domain.NewProfile("a@x.com", "Ana", "Diaz", "hash", "+1", "Org", domain.NewRole(1, "ROLE_USER"), time.Now(), time.Now())

	tests := []struct {
		name       string
		subject    string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "success", subject: "a@x.com", wantStatus: http.StatusOK},
		{name: "no subject in context", wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "profile gone", subject: "a@x.com", svcErr: domain.NewNotFound("profile", "email", "a@x.com"), wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProfileService{profile: profile, getErr: tt.svcErr}
			ctrl := NewProfileController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/profiles/me", nil)
			if tt.subject != "" {
				req = req.WithContext(middleware.WithSubject(req.Context(), tt.subject, []string{"ROLE_USER"}))
			}
			rr := httptest.NewRecorder()

			ctrl.Me(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var got domain.Profile
			envelope := decodeEnvelope(t, rr, &got)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "a@x.com", got.Email)
				assert.Equal(t, "Org", got.Organization)
				assert.Equal(t, "a@x.com", fake.lastEmail)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}
