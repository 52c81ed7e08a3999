package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"STOREFRONT_ADDR", "API_BASE_URL", "API_TIMEOUT", "CREDENTIALS_BACKEND",
		"CREDENTIALS_DSN", "CREDENTIALS_KEY", "REDIS_URL", "KAFKA_BROKERS", "STRICT_ORDERING", "LOG_LEVEL", "TRACE_STDOUT"} {
		t.Setenv(k, "")
	}

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 5*time.Second, c.APITimeout)
	assert.Equal(t, BackendSQL, c.CredentialsBackend)
	assert.Equal(t, "storefront.db", c.CredentialsDSN)
	assert.Nil(t, c.KafkaBrokers)
	assert.False(t, c.StrictOrdering)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", "https://shop.example/api")
	t.Setenv("API_TIMEOUT", "2s")
	t.Setenv("CREDENTIALS_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STRICT_ORDERING", "true")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/api", c.APIBaseURL)
	assert.Equal(t, 2*time.Second, c.APITimeout)
	assert.Equal(t, BackendRedis, c.CredentialsBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.True(t, c.StrictOrdering)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "memory", cfg: Config{APIBaseURL: "http://x", CredentialsBackend: BackendMemory}},
		{name: "redis without url", cfg: Config{APIBaseURL: "http://x", CredentialsBackend: BackendRedis}, wantErr: "REDIS_URL"},
		{name: "sql without dsn", cfg: Config{APIBaseURL: "http://x", CredentialsBackend: BackendSQL}, wantErr: "CREDENTIALS_DSN"},
		{name: "unknown backend", cfg: Config{APIBaseURL: "http://x", CredentialsBackend: "file"}, wantErr: "unknown CREDENTIALS_BACKEND"},
		{name: "no base url", cfg: Config{CredentialsBackend: BackendMemory}, wantErr: "API_BASE_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
