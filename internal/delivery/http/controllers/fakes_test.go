package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"eventconnect/internal/delivery/http/helpers"
	"eventconnect/internal/domain"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeProfileService implements domain.ProfileService for handler tests.
type fakeProfileService struct {
	registered  *domain.Profile
	registerErr error
	lastInput   domain.RegisterInput
	token       string
	authErr     error
	lastEmail   string
	profile     *domain.Profile
	getErr      error
}

func (f *fakeProfileService) Register(_ context.Context, in domain.RegisterInput) (*domain.Profile, error) {
	f.lastInput = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registered, nil
}

func (f *fakeProfileService) Authenticate(_ context.Context, email, _ string) (string, error) {
	f.lastEmail = email
	return f.token, f.authErr
}

func (f *fakeProfileService) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	f.lastEmail = email
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.profile, nil
}

// fakeEventService implements domain.EventService and records the last call.
type fakeEventService struct {
	view      *domain.EventView
	views     []*domain.EventView
	err       error
	calls     int
	subject   string
	id        int64
	input     domain.EventInput
	imageName string
	authErr   error
	authCalls int
}

func (f *fakeEventService) Create(_ context.Context, subject string, in domain.EventInput, imageName string) (*domain.EventView, error) {
	f.calls++
	f.subject, f.input, f.imageName = subject, in, imageName
	return f.view, f.err
}

func (f *fakeEventService) Update(_ context.Context, subject string, id int64, in domain.EventInput, imageName string) (*domain.EventView, error) {
	f.calls++
	f.subject, f.id, f.input, f.imageName = subject, id, in, imageName
	return f.view, f.err
}

func (f *fakeEventService) Delete(_ context.Context, subject string, id int64) error {
	f.calls++
	f.subject, f.id = subject, id
	return f.err
}

func (f *fakeEventService) AuthorizeMutation(_ context.Context, subject string, id int64) error {
	f.authCalls++
	f.subject, f.id = subject, id
	return f.authErr
}

func (f *fakeEventService) List(context.Context) ([]*domain.EventView, error) {
	f.calls++
	return f.views, f.err
}

func (f *fakeEventService) ListByCategory(_ context.Context, categoryID int64) ([]*domain.EventView, error) {
	f.calls++
	f.id = categoryID
	return f.views, f.err
}

func (f *fakeEventService) ListMine(_ context.Context, subject string) ([]*domain.EventView, error) {
	f.calls++
	f.subject = subject
	return f.views, f.err
}

func (f *fakeEventService) GetByID(_ context.Context, id int64) (*domain.EventView, error) {
	f.calls++
	f.id = id
	return f.view, f.err
}

// fakeImageStorage implements domain.ImageStorage over a map.
type fakeImageStorage struct {
	saveErr   error
	saved     map[string]string
	lastMIME  string
	lastName  string
	deleted   []string
	generated string
}

func newFakeImageStorage() *fakeImageStorage {
	return &fakeImageStorage{saved: map[string]string{}, generated: "3f1c.png"}
}

func (f *fakeImageStorage) SaveImage(_ context.Context, content io.Reader, mimeType, originalName string, _ int64) (string, error) {
	f.lastMIME, f.lastName = mimeType, originalName
	if f.saveErr != nil {
		return "", f.saveErr
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	f.saved[f.generated] = string(b)
	return f.generated, nil
}

func (f *fakeImageStorage) DeleteImage(_ context.Context, name string) {
	f.deleted = append(f.deleted, name)
	delete(f.saved, name)
}

func (f *fakeImageStorage) ResolvePath(name string) (string, error) { return name, nil }

func (f *fakeImageStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if strings.Contains(name, "..") {
		return nil, domain.ErrInvalidFile
	}
	body, ok := f.saved[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// decodeEnvelope decodes the response envelope and, when data is non-nil, re-decodes data into it.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) helpers.APIResponse {
	t.Helper()
	var raw struct {
		Data  json.RawMessage    `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return helpers.APIResponse{Data: data, Error: raw.Error}
}
