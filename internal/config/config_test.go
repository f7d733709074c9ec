package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/nording/hrvctl/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hrvctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "debug"
simulated = true

[sensor]
scan_timeout = 5
ibi_history = 90
hrv_history = 180
hrv_window = 45

[pacer]
interval = 25

[recorder]
directory = "/tmp/recordings"
overwrite = true

[publisher]
enabled = true
transport = "mqtt"
address = "tcp://localhost:1883"
client_id = "hrvctl-test"
channel = "biofeedback"

[session]
enabled = true
database = "/tmp/session.db"
period = 2

[ui]
enabled = true
listen = "localhost:9000"
`)
	t.Setenv("HRVCTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Simulated)
	assert.Equal(t, 5, cfg.Sensor.ScanTimeout)
	assert.Equal(t, 90, cfg.Sensor.IBIHistory)
	assert.Equal(t, 180, cfg.Sensor.HRVHistory)
	assert.Equal(t, 45, cfg.Sensor.HRVWindow)
	assert.Equal(t, 25, cfg.Pacer.Interval)
	assert.Equal(t, "/tmp/recordings", cfg.Recorder.Directory)
	assert.True(t, cfg.Recorder.Overwrite)
	assert.True(t, cfg.Publisher.Enabled)
	assert.Equal(t, "mqtt", cfg.Publisher.Transport)
	assert.Equal(t, "tcp://localhost:1883", cfg.Publisher.Address)
	assert.Equal(t, "hrvctl-test", cfg.Publisher.ClientID)
	assert.Equal(t, "biofeedback", cfg.Publisher.Channel)
	assert.True(t, cfg.Session.Enabled)
	assert.Equal(t, "/tmp/session.db", cfg.Session.DBPath)
	assert.Equal(t, 2, cfg.Session.Period)
	assert.True(t, cfg.UI.Enabled)
	assert.Equal(t, "localhost:9000", cfg.UI.Listen)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HRVCTL_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Simulated)
	assert.Equal(t, 10, cfg.Sensor.ScanTimeout)
	assert.Equal(t, 60, cfg.Sensor.IBIHistory)
	assert.Equal(t, 150, cfg.Sensor.HRVHistory)
	assert.Equal(t, 30, cfg.Sensor.HRVWindow)
	assert.Equal(t, 50, cfg.Pacer.Interval)
	assert.Equal(t, ".", cfg.Recorder.Directory)
	assert.True(t, cfg.Publisher.Enabled)
	assert.Equal(t, "redis", cfg.Publisher.Transport)
	assert.Equal(t, "localhost:6379", cfg.Publisher.Address)
	assert.Equal(t, "hrvctl", cfg.Publisher.Channel)
	assert.False(t, cfg.Session.Enabled)
	assert.False(t, cfg.UI.Enabled)
	assert.Equal(t, "localhost:8737", cfg.UI.Listen)
}

func TestLoadInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, "This is not a valid TOML file\n")
	t.Setenv("HRVCTL_CONFIG", configPath)

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := &config.Config{LogLevel: "info"}
		cfg.Sensor.ScanTimeout = 10
		cfg.Sensor.IBIHistory = 60
		cfg.Sensor.HRVHistory = 150
		cfg.Sensor.HRVWindow = 30
		cfg.Pacer.Interval = 50

		return cfg
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Sensor.HRVWindow = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Pacer.Interval = -1
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Publisher.Enabled = true
	cfg.Publisher.Transport = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Publisher.Enabled = true
	cfg.Publisher.Transport = "redis"
	assert.Error(t, cfg.Validate(), "enabled publisher needs an address")
	cfg.Publisher.Address = "localhost:6379"
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Session.Enabled = true
	cfg.Session.Period = 0
	assert.Error(t, cfg.Validate())
}
