package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
port = 5432
dbname = "consultations"

[payment]
public_base_url = "http://localhost:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, SessionStoreMemory, cfg.Sessions.Store)
	assert.Equal(t, 120, cfg.Sessions.TTLMinutes)
	assert.Equal(t, 14, cfg.Availability.HorizonDays)
	assert.Equal(t, 15, cfg.Payment.TimeoutMinutes)
	assert.Equal(t, NotifyDriverStub, cfg.Notify.Driver)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")

	path := writeConfig(t, `
[database]
host = "localhost"
port = 5432
password = "from-file"
dbname = "consultations"

[payment]
public_base_url = "http://localhost:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown storage driver",
			content: `
[storage]
driver = "sqlite"
[payment]
public_base_url = "http://localhost"
`,
		},
		{
			name: "mongo without uri",
			content: `
[storage]
driver = "mongo"
[payment]
public_base_url = "http://localhost"
`,
		},
		{
			name: "redis sessions without addr",
			content: `
[database]
host = "localhost"
dbname = "db"
[sessions]
store = "redis"
[payment]
public_base_url = "http://localhost"
`,
		},
		{
			name: "sendgrid without key",
			content: `
[database]
host = "localhost"
dbname = "db"
[notify]
driver = "sendgrid"
from_email = "hello@vexa.digital"
[payment]
public_base_url = "http://localhost"
`,
		},
		{
			name: "missing public base url",
			content: `
[database]
host = "localhost"
dbname = "db"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad_TrustedProxies(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
dbname = "consultations"

[payment]
public_base_url = "http://localhost:8080"

[ratelimit]
enabled = true
trusted_proxies = ["10.0.0.0/8", "192.0.2.10"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.RateLimit.TrustedProxies)
}
