package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const devConfig = `
app:
  env: dev
  timezone: Europe/Berlin
db:
  dsn: postgres://localhost/gym
jwt:
  secret: change-me
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, devConfig))
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.App.Env)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.DB.MaxOpenConns)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "gym_tracker", cfg.Telemetry.Namespace)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "bad timezone",
			body: "app:\n  env: dev\n  timezone: Mars/Olympus\ndb:\n  dsn: x\njwt:\n  secret: s\n",
		},
		{
			name: "bad env",
			body: "app:\n  env: staging\ndb:\n  dsn: x\njwt:\n  secret: s\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrConfigNotLoaded)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotLoaded)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, devConfig))
	require.NoError(t, err)

	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"jwt secret is the default value"}, warnings)

	cfg.App.Env = Production
	_, err = cfg.Validate()
	assert.ErrorIs(t, err, ErrInsecureConfig)

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	warnings, err = cfg.Validate()
	require.NoError(t, err)
	assert.Empty(t, warnings)

	cfg.JWT.AccessTokenTTL = 0
	_, err = cfg.Validate()
	assert.ErrorIs(t, err, ErrInsecureConfig)
}
