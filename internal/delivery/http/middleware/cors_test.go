package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllowed string
		wantCreds   string
	}{
		{name: "allowed origin", origins: []string{"http://localhost:4200/"}, method: http.MethodGet, origin: "http://localhost:4200", wantStatus: http.StatusOK, wantAllowed: "http://localhost:4200", wantCreds: "true"},
		{name: "unknown origin", origins: []string{"http://localhost:4200"}, method: http.MethodGet, origin: "http://evil.test", wantStatus: http.StatusOK},
		{name: "preflight allowed", origins: []string{"http://localhost:4200"}, method: http.MethodOptions, origin: "http://localhost:4200", preflight: true, wantStatus: http.StatusNoContent, wantAllowed: "http://localhost:4200", wantCreds: "true"},
		{name: "preflight unknown origin", origins: []string{"http://localhost:4200"}, method: http.MethodOptions, origin: "http://evil.test", preflight: true, wantStatus: http.StatusNoContent},
		{name: "wildcard", origins: []string{"*"}, method: http.MethodGet, origin: "http://any.test", wantStatus: http.StatusOK, wantAllowed: "http://any.test"},
		{name: "no origin header", origins: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()

			CORS(tt.origins, okHandler).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllowed, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, rr.Header().Get("Access-Control-Allow-Credentials"))
			if tt.preflight && tt.wantAllowed != "" {
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PUT")
			}
		})
	}
}
