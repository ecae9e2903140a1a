package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eventconnect/internal/delivery/http/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageController_GetImage(t *testing.T) {
	images := newFakeImageStorage()
	images.saved["a.png"] = "png-bytes"
	images.saved["b.jpeg"] = "jpeg-bytes"
	images.saved["c.gif"] = "gif-bytes"

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantType    string
		wantBody    string
		wantErrCode string
	}{
		{name: "png", path: "/upload/images/a.png", wantStatus: http.StatusOK, wantType: "image/png", wantBody: "png-bytes"},
		{name: "jpeg", path: "/upload/images/b.jpeg", wantStatus: http.StatusOK, wantType: "image/jpeg", wantBody: "jpeg-bytes"},
		{name: "unknown extension falls back", path: "/upload/images/c.gif", wantStatus: http.StatusOK, wantType: "application/octet-stream", wantBody: "gif-bytes"},
		{name: "missing", path: "/upload/images/none.png", wantStatus: http.StatusNotFound, wantErrCode: helpers.ErrCodeNotFound},
		{name: "rejected name", path: "/upload/images/..secret", wantStatus: http.StatusBadRequest, wantErrCode: helpers.ErrCodeInvalidFile},
	}

	ctrl := NewImageController(testLogger, images)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /upload/images/{filename}", ctrl.GetImage)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantErrCode != "" {
				envelope := decodeEnvelope(t, rr, nil)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			assert.Equal(t, tt.wantType, rr.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}
