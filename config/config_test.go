package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "LOG_LEVEL", "REQUEST_TIMEOUT", "CORS_ALLOWED_ORIGINS",
		"JWT_SECRET", "JWT_EXPIRATION", "BCRYPT_COST",
		"UPLOAD_DIR", "UPLOAD_MAX_SIZE", "UPLOAD_ALLOWED_EXTENSIONS", "UPLOAD_ALLOWED_MIME_TYPES",
		"STORAGE_BACKEND", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_PREFIX",
		"EMAIL_PROVIDER", "EMAIL_FROM_ADDRESS", "EMAIL_FROM_NAME",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "LOGIN_RATE_LIMIT", "LOGIN_RATE_WINDOW",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("GO_ENV", "production")
}

func TestLoad_defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Contains(t, cfg.DBUrl, "eventconnect")
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(3600), cfg.JWT.ExpirationSeconds)
	assert.Equal(t, 10, cfg.JWT.BcryptCost)
	assert.Equal(t, "uploads/events", cfg.Upload.Dir)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxSize)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "webp"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 10, cfg.RateLimit.LoginLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.LoginWindow)
}

func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "-1")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("LOGIN_RATE_WINDOW", "120")
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", " png , gif ,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("STORAGE_BACKEND", "S3")
	t.Setenv("S3_BUCKET", "images")
	t.Setenv("AWS_REGION", "eu-west-3")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(-1), cfg.JWT.ExpirationSeconds)
	assert.Equal(t, 12, cfg.JWT.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.LoginWindow)
	assert.Equal(t, []string{"png", "gif"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, StorageS3, cfg.Storage.Backend)
	assert.Equal(t, "eu-west-3", cfg.Storage.Region, "S3 region falls back to AWS_REGION")
	assert.Equal(t, "AKIA", cfg.Storage.AccessKeyID)
	assert.Equal(t, "eu-west-3", cfg.Email.Region)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing secret", env: map[string]string{}, wantErr: "JWT_SECRET is required"},
		{name: "bad integer", env: map[string]string{"JWT_SECRET": "x", "BCRYPT_COST": "ten"}, wantErr: `invalid BCRYPT_COST "ten"`},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "x", "REQUEST_TIMEOUT": "soon"}, wantErr: "invalid REQUEST_TIMEOUT"},
		{name: "expiration below sentinel", env: map[string]string{"JWT_SECRET": "x", "JWT_EXPIRATION": "-5"}, wantErr: "JWT_EXPIRATION"},
		{name: "unknown backend", env: map[string]string{"JWT_SECRET": "x", "STORAGE_BACKEND": "ftp"}, wantErr: "STORAGE_BACKEND"},
		{name: "s3 without bucket", env: map[string]string{"JWT_SECRET": "x", "STORAGE_BACKEND": "s3"}, wantErr: "S3_BUCKET is required"},
		{name: "zero upload size", env: map[string]string{"JWT_SECRET": "x", "UPLOAD_MAX_SIZE": "0"}, wantErr: "UPLOAD_MAX_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "v", record["k"])

	buf.Reset()
	newLogger(&buf, "development", "").Debug("hidden")
	assert.Empty(t, buf.String())

	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
