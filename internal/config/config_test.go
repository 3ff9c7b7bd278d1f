package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmailList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: []string{}},
		{name: "blanks only", raw: " , ,", want: []string{}},
		{name: "trim and lower", raw: " Alice@Example.com ,bob@example.com", want: []string{"alice@example.com", "bob@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEmailList(tt.raw))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.Backend.BaseURL)
	assert.Equal(t, 60, cfg.Backend.ReadTimeoutSeconds)
	assert.Equal(t, 120, cfg.Backend.ChatTimeoutSeconds)
	assert.Equal(t, 30, cfg.Backend.WriteTimeoutSeconds)
	assert.Equal(t, "access_token", cfg.Auth.CookieName)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[backend]
base_url = "http://file-backend:9000"
read_retries = 5

[auth]
admin_emails = "file@example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_BASE_URL", "http://env-backend:7000")
	t.Setenv("ADMIN_EMAILS", "Ops@Example.com, dev@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env-backend:7000", cfg.Backend.BaseURL)
	assert.Equal(t, 5, cfg.Backend.ReadRetries)
	assert.Equal(t, []string{"ops@example.com", "dev@example.com"}, cfg.Auth.AdminList())
}
