package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/camfs"
	"github.com/sagarc03/camfs/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 81, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.MaxFiles)
	assert.Equal(t, "client", cfg.WiFi.Mode)
	assert.Equal(t, 10*time.Second, cfg.WiFi.Timeout)
	assert.Equal(t, "192.168.4.1", cfg.WiFi.APIP)
	assert.Equal(t, "sdcard", cfg.Storage.Type)
	assert.Equal(t, "./data", cfg.Storage.Path)
	assert.Equal(t, "flash.db", cfg.Storage.Flash.DSN)
	assert.Equal(t, "flash_files", cfg.Storage.Flash.Table)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
server:
  port: 8080
  max_files: 25
wifi:
  mode: access-point
  ssid: camfs
  password: hunter22
  timeout: 30s
storage:
  type: flash
  flash:
    dsn: /var/lib/camfs/flash.db
    table: images
log:
  level: debug
`)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Server.MaxFiles)
	assert.Equal(t, "access-point", cfg.WiFi.Mode)
	assert.Equal(t, camfs.Credentials{SSID: "camfs", Password: "hunter22"}, cfg.WiFi.Credentials())
	assert.Equal(t, 30*time.Second, cfg.WiFi.Timeout)
	assert.Equal(t, "flash", cfg.Storage.Type)
	assert.Equal(t, "/var/lib/camfs/flash.db", cfg.Storage.Flash.DSN)
	assert.Equal(t, "images", cfg.Storage.Flash.Table)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	base := writeConfig(t, "base.yaml", `
server:
  port: 81
wifi:
  ssid: home
  password: secret
`)
	override := writeConfig(t, "override.yaml", `
server:
  port: 9000
wifi:
  password: changed
`)

	cfg, err := config.Load([]string{base, override}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "changed", cfg.WiFi.Password)
	assert.Equal(t, "home", cfg.WiFi.SSID)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "server:\n  port: 99999\n"},
		{"negative max files", "server:\n  max_files: -1\n"},
		{"unknown wifi mode", "wifi:\n  mode: mesh\n"},
		{"zero timeout", "wifi:\n  timeout: 0s\n"},
		{"bad ap ip", "wifi:\n  ap_ip: not-an-ip\n"},
		{"unknown storage", "storage:\n  type: tape\n"},
		{"sdcard without path", "storage:\n  type: sdcard\n  path: \"\"\n"},
		{"unknown log level", "log:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", tt.content)

			_, err := config.Load([]string{path}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoad_WithCORS(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
cors:
  enabled: true
  allowed_origins:
    - https://example.com
  allowed_methods:
    - GET
  max_age: 600
`)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("CAMFS_SERVER_PORT", "9090")
	t.Setenv("CAMFS_WIFI_SSID", "office")
	t.Setenv("CAMFS_STORAGE_TYPE", "flash")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "office", cfg.WiFi.SSID)
	assert.Equal(t, "flash", cfg.Storage.Type)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("CAMFS_SERVER_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("ssid", "", "")
	flags.Duration("timeout", 0, "")
	flags.String("storage-path", "", "")
	require.NoError(t, flags.Parse([]string{"--port=8181", "--ssid=cli", "--timeout=3s"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "cli", cfg.WiFi.SSID)
	assert.Equal(t, 3*time.Second, cfg.WiFi.Timeout)
	assert.Equal(t, "./data", cfg.Storage.Path, "unset flags must not override defaults")
}

func TestContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	require.Error(t, err)

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	got, err := config.FromContext(config.WithContext(context.Background(), cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
