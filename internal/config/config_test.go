package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig_ParsesDurationsAndBlocks(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  mode: "debug"
  read_timeout: 15s
primary_db:
  host: "db1"
  port: 5432
  dbname: "callback"
rc_db:
  host: "db2"
crm_db:
  host: "db3"
workflow:
  timezone: "Asia/Kolkata"
  auto_accept_window: 45m
  booking_detail_base: "https://admin.example.com"
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Std())
	assert.Equal(t, "db1", cfg.Primary.Host)
	assert.Equal(t, "db2", cfg.RC.Host)
	assert.Equal(t, "db3", cfg.CRM.Host)
	assert.Equal(t, 45*time.Minute, cfg.Workflow.AutoAcceptWindow.Std())
	assert.Equal(t, "https://admin.example.com", cfg.Workflow.BookingDetailBase)
}

func TestNewConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
primary_db:
  host: "db1"
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout.Std())
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout.Std())
	assert.Equal(t, "Asia/Kolkata", cfg.Workflow.Timezone)
	assert.Equal(t, 30*time.Minute, cfg.Workflow.AutoAcceptWindow.Std())
	assert.Equal(t, 5*time.Minute, cfg.Workflow.SweepLockTTL.Std())
}

func TestNewConfig_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  read_timeout: "soon"
`)

	_, err := NewConfig(path)
	assert.Error(t, err)
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}
