package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// MailboxConfig holds the IMAP/SMTP endpoints for the monitored mailbox.
// Passwords are not stored here; they come from the credential store.
type MailboxConfig struct {
	IMAPHost string `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort string `mapstructure:"imap_port" yaml:"imap_port"`
	SMTPHost string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort string `mapstructure:"smtp_port" yaml:"smtp_port"`

	// Username is also the From address for outbound replies.
	Username string `mapstructure:"username" yaml:"username"`

	// TLS selects implicit TLS; otherwise STARTTLS is used.
	TLS bool `mapstructure:"tls" yaml:"tls"`

	// Folder is the mailbox to poll for unread messages.
	Folder string `mapstructure:"folder" yaml:"folder"`

	// FetchLimit caps how many unread messages a single intake fetches.
	FetchLimit int `mapstructure:"fetch_limit" yaml:"fetch_limit"`
}

// AIConfig holds settings for the reply generation service.
type AIConfig struct {
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`

	// PromptPath points at the system prompt template file. Empty means
	// the built-in default prompt.
	PromptPath string `mapstructure:"prompt_path" yaml:"prompt_path"`
}

// ScheduleConfig controls the randomized send delay and the daily local-time
// window during which replies may go out.
type ScheduleConfig struct {
	// StartHour and EndHour bound the sending window as [start, end) in
	// local hours.
	StartHour int `mapstructure:"start_hour" yaml:"start_hour"`
	EndHour   int `mapstructure:"end_hour" yaml:"end_hour"`

	// MinDelaySec and MaxDelaySec bound the uniform random hold time
	// applied to each accepted message, in seconds.
	MinDelaySec int `mapstructure:"min_delay_sec" yaml:"min_delay_sec"`
	MaxDelaySec int `mapstructure:"max_delay_sec" yaml:"max_delay_sec"`
}

// MinDelay returns the lower delay bound as a duration.
func (c ScheduleConfig) MinDelay() time.Duration {
	return time.Duration(c.MinDelaySec) * time.Second
}

// MaxDelay returns the upper delay bound as a duration.
func (c ScheduleConfig) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelaySec) * time.Second
}

// FilterConfig tunes the classification rule set.
type FilterConfig struct {
	// DenyList holds sender address substrings that are never replied
	// to. Empty means the built-in no-reply list.
	DenyList []string `mapstructure:"deny_list" yaml:"deny_list"`

	// DisabledCategories names rule categories to skip (e.g. "rates",
	// "collaboration"). All categories are active by default.
	DisabledCategories []string `mapstructure:"disabled_categories" yaml:"disabled_categories"`
}

// AgentConfig controls the polling loop cadence and intake behavior.
type AgentConfig struct {
	IntakeIntervalSec   int `mapstructure:"intake_interval_sec" yaml:"intake_interval_sec"`
	DispatchIntervalSec int `mapstructure:"dispatch_interval_sec" yaml:"dispatch_interval_sec"`

	// MarkFilteredRead marks filtered-out messages as read at intake.
	// Off by default so a misclassified genuine message stays visible.
	MarkFilteredRead bool `mapstructure:"mark_filtered_read" yaml:"mark_filtered_read"`
}

// IntakeInterval returns the intake cadence as a duration.
func (c AgentConfig) IntakeInterval() time.Duration {
	return time.Duration(c.IntakeIntervalSec) * time.Second
}

// DispatchInterval returns the dispatch cadence as a duration.
func (c AgentConfig) DispatchInterval() time.Duration {
	return time.Duration(c.DispatchIntervalSec) * time.Second
}

// DatabaseConfig holds the local state database settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Mailbox  MailboxConfig  `mapstructure:"mailbox" yaml:"mailbox"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Filter   FilterConfig   `mapstructure:"filter" yaml:"filter"`
	Agent    AgentConfig    `mapstructure:"agent" yaml:"agent"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailagent/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mailagent", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Mailbox: MailboxConfig{
			IMAPPort:   "993",
			SMTPPort:   "465",
			TLS:        true,
			Folder:     "INBOX",
			FetchLimit: 500,
		},
		AI: AIConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 1024,
		},
		Schedule: ScheduleConfig{
			StartHour:   7,
			EndHour:     24,
			MinDelaySec: 3600,
			MaxDelaySec: 6 * 3600,
		},
		Agent: AgentConfig{
			IntakeIntervalSec:   3600,
			DispatchIntervalSec: 300,
		},
		Database: DatabaseConfig{
			Path: defaultDatabasePath(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "mailagent.db")
	}
	return filepath.Join(home, ".config", "mailagent", "mailagent.db")
}

// Validate checks the configuration for values the agent cannot start with.
func (c *AppConfig) Validate() error {
	if c.Mailbox.IMAPHost == "" {
		return fmt.Errorf("mailbox.imap_host is required")
	}
	if c.Mailbox.SMTPHost == "" {
		return fmt.Errorf("mailbox.smtp_host is required")
	}
	if c.Mailbox.Username == "" {
		return fmt.Errorf("mailbox.username is required")
	}
	if c.Schedule.StartHour < 0 || c.Schedule.StartHour > 23 {
		return fmt.Errorf("schedule.start_hour %d out of range [0, 23]", c.Schedule.StartHour)
	}
	if c.Schedule.EndHour < 1 || c.Schedule.EndHour > 24 {
		return fmt.Errorf("schedule.end_hour %d out of range [1, 24]", c.Schedule.EndHour)
	}
	if c.Schedule.StartHour >= c.Schedule.EndHour {
		return fmt.Errorf("schedule.start_hour must be before schedule.end_hour")
	}
	if c.Schedule.MinDelaySec < 0 || c.Schedule.MaxDelaySec < c.Schedule.MinDelaySec {
		return fmt.Errorf("schedule delay bounds invalid: min=%ds max=%ds",
			c.Schedule.MinDelaySec, c.Schedule.MaxDelaySec)
	}
	return nil
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("mailbox.imap_port", "993")
	v.SetDefault("mailbox.smtp_port", "465")
	v.SetDefault("mailbox.tls", true)
	v.SetDefault("mailbox.folder", "INBOX")
	v.SetDefault("mailbox.fetch_limit", 500)
	v.SetDefault("ai.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("schedule.start_hour", 7)
	v.SetDefault("schedule.end_hour", 24)
	v.SetDefault("schedule.min_delay_sec", 3600)
	v.SetDefault("schedule.max_delay_sec", 6*3600)
	v.SetDefault("agent.intake_interval_sec", 3600)
	v.SetDefault("agent.dispatch_interval_sec", 300)
	v.SetDefault("agent.mark_filtered_read", false)
	v.SetDefault("database.path", defaultDatabasePath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("mailbox", cfg.Mailbox)
	v.Set("ai", cfg.AI)
	v.Set("schedule", cfg.Schedule)
	v.Set("filter", cfg.Filter)
	v.Set("agent", cfg.Agent)
	v.Set("database", cfg.Database)
	v.Set("logging", cfg.Logging)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
