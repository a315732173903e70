package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "993", cfg.Mailbox.IMAPPort)
	assert.Equal(t, "INBOX", cfg.Mailbox.Folder)
	assert.True(t, cfg.Mailbox.TLS)
	assert.Equal(t, 7, cfg.Schedule.StartHour)
	assert.Equal(t, 24, cfg.Schedule.EndHour)
	assert.Equal(t, 3600, cfg.Schedule.MinDelaySec)
	assert.Equal(t, 21600, cfg.Schedule.MaxDelaySec)
	assert.Equal(t, 3600, cfg.Agent.IntakeIntervalSec)
	assert.Equal(t, 300, cfg.Agent.DispatchIntervalSec)
	assert.False(t, cfg.Agent.MarkFilteredRead)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `mailbox:
  imap_host: imap.example.com
  smtp_host: smtp.example.com
  username: me@example.com
  tls: false
schedule:
  start_hour: 9
  end_hour: 18
  min_delay_sec: 60
  max_delay_sec: 120
filter:
  deny_list:
    - robot@
  disabled_categories:
    - rates
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "imap.example.com", cfg.Mailbox.IMAPHost)
	assert.Equal(t, "me@example.com", cfg.Mailbox.Username)
	assert.False(t, cfg.Mailbox.TLS)
	assert.Equal(t, 9, cfg.Schedule.StartHour)
	assert.Equal(t, 18, cfg.Schedule.EndHour)
	assert.Equal(t, []string{"robot@"}, cfg.Filter.DenyList)
	assert.Equal(t, []string{"rates"}, cfg.Filter.DisabledCategories)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "993", cfg.Mailbox.IMAPPort)
	assert.Equal(t, 1024, cfg.AI.MaxTokens)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := defaultAppConfig()
	cfg.Mailbox.IMAPHost = "imap.example.com"
	cfg.Mailbox.SMTPHost = "smtp.example.com"
	cfg.Mailbox.Username = "me@example.com"
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "imap.example.com", loaded.Mailbox.IMAPHost)
	assert.Equal(t, cfg.Schedule, loaded.Schedule)
}

func TestValidate(t *testing.T) {
	valid := func() *AppConfig {
		cfg := defaultAppConfig()
		cfg.Mailbox.IMAPHost = "imap.example.com"
		cfg.Mailbox.SMTPHost = "smtp.example.com"
		cfg.Mailbox.Username = "me@example.com"
		return cfg
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Mailbox.IMAPHost = ""
	assert.ErrorContains(t, cfg.Validate(), "imap_host")

	cfg = valid()
	cfg.Schedule.StartHour = 25
	assert.ErrorContains(t, cfg.Validate(), "start_hour")

	cfg = valid()
	cfg.Schedule.StartHour = 18
	cfg.Schedule.EndHour = 9
	assert.ErrorContains(t, cfg.Validate(), "before")

	cfg = valid()
	cfg.Schedule.MinDelaySec = 600
	cfg.Schedule.MaxDelaySec = 60
	assert.ErrorContains(t, cfg.Validate(), "delay bounds")
}

func TestScheduleDurationHelpers(t *testing.T) {
	c := ScheduleConfig{MinDelaySec: 90, MaxDelaySec: 120}
	assert.Equal(t, "1m30s", c.MinDelay().String())
	assert.Equal(t, "2m0s", c.MaxDelay().String())
}
