package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kepler471/daily/internal/model"
)

// Preferences holds the user-tunable knobs that drive the reset
// scheduler and the reminder synchronizer.
type Preferences struct {
	ResetHour           int    // local hour (0-23) at which completion flags clear
	RequiredReminders   bool   // reminders for required tasks without an explicit time
	SuggestedReminders  bool   // same, for suggested tasks
	DefaultReminderTime string // "HH:MM" used when a task has no ScheduledTime
}

// Telegram holds the optional delivery-channel credentials.
type Telegram struct {
	Token  string
	ChatID int64
}

// Config keeps runtime settings for the app.
type Config struct {
	DatabasePath string
	LogLevel     string
	Telegram     Telegram
	Preferences  Preferences

	v *viper.Viper
}

// Load reads configuration from a YAML file and DAILY_* environment
// variables with sane defaults. An empty path searches the user config
// dir and the working directory; a missing file just yields defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "daily"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DAILY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database", "daily.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("reset.hour", 4)
	v.SetDefault("reminders.required", true)
	v.SetDefault("reminders.suggested", false)
	v.SetDefault("reminders.default_time", "09:00")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{v: v}
	cfg.apply()

	if err := cfg.Preferences.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) apply() {
	c.DatabasePath = strings.TrimSpace(c.v.GetString("database"))
	if c.DatabasePath == "" {
		c.DatabasePath = "daily.db"
	}
	c.LogLevel = c.v.GetString("log_level")
	c.Telegram = Telegram{
		Token:  strings.TrimSpace(c.v.GetString("telegram.token")),
		ChatID: c.v.GetInt64("telegram.chat_id"),
	}
	c.Preferences = Preferences{
		ResetHour:           c.v.GetInt("reset.hour"),
		RequiredReminders:   c.v.GetBool("reminders.required"),
		SuggestedReminders:  c.v.GetBool("reminders.suggested"),
		DefaultReminderTime: c.v.GetString("reminders.default_time"),
	}
}

func (p Preferences) validate() error {
	if p.ResetHour < 0 || p.ResetHour > 23 {
		return fmt.Errorf("reset hour %d out of range 0-23", p.ResetHour)
	}
	if _, _, err := model.ParseTimeOfDay(p.DefaultReminderTime); err != nil {
		return fmt.Errorf("default reminder time: %w", err)
	}
	return nil
}

// Watch re-reads the config file on change and delivers the new
// preference snapshot. Invalid edits are dropped, keeping the last
// good preferences in effect. Safe to call once; no-op without a file.
func (c *Config) Watch(onChange func(Preferences)) {
	if c.v.ConfigFileUsed() == "" {
		return
	}
	var mu sync.Mutex
	c.v.OnConfigChange(func(fsnotify.Event) {
		mu.Lock()
		defer mu.Unlock()
		c.apply()
		if err := c.Preferences.validate(); err != nil {
			return
		}
		onChange(c.Preferences)
	})
	c.v.WatchConfig()
}
