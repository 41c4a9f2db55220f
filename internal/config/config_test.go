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

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090
public_base_url = "https://crm.example.com/api/v1"

[database]
host = "localhost"
port = 5432
user = "scheduler"
password = "secret"
dbname = "scheduling"

[crmcore]
enabled = true
url = "http://crm-core:8080"

[booking]
session_ttl_minutes = 45
phone_region = "DE"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "https://crm.example.com/api/v1", cfg.Server.PublicBaseURL)
	assert.Equal(t, "http://crm-core:8080", cfg.CRMCore.URL)
	assert.Equal(t, 45, cfg.Booking.SessionTTLMinutes)
	assert.Equal(t, "DE", cfg.Booking.PhoneRegion)

	assert.Contains(t, cfg.Database.DSN(), "host=localhost")
	assert.Contains(t, cfg.Database.DSN(), "dbname=scheduling")
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "scheduler"
dbname = "scheduling"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "crm-scheduling-service", cfg.Metrics.ServiceName)
	assert.Equal(t, 30, cfg.Booking.SessionTTLMinutes)
	assert.Equal(t, 5, cfg.Booking.ReserveTimeoutSeconds)
	assert.Equal(t, 31, cfg.Booking.MaxRangeDays)
	assert.Equal(t, "US", cfg.Booking.PhoneRegion)
	assert.False(t, cfg.CRMCore.Enabled)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no database host",
			content: "[database]\nuser = \"scheduler\"\ndbname = \"scheduling\"\n",
		},
		{
			name:    "no database user",
			content: "[database]\nhost = \"localhost\"\ndbname = \"scheduling\"\n",
		},
		{
			name:    "crmcore enabled without url",
			content: "[database]\nhost = \"localhost\"\nuser = \"scheduler\"\ndbname = \"scheduling\"\n\n[crmcore]\nenabled = true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
