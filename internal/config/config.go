// Package config provides configuration loading, validation, and defaults
// for the filler words bot. Values come from a YAML file merged over
// defaults, with BOT_* environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components:
// logging, Telegram transport, database, filler tracking, and the
// task scheduler.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the structured logging output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the access-control lists.
// Handle lists accept usernames with or without a leading "@"; an empty
// admin list means anyone may manage tracking, an empty allowed list means
// anyone may chat and query stats.
type TelegramConfig struct {
	Token            string   `mapstructure:"token" validate:"required"`
	AdminUsernames   []string `mapstructure:"admin_usernames"`
	AllowedUsernames []string `mapstructure:"allowed_usernames"`

	// BotInfo is populated at runtime after connecting to Telegram.
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TrackerConfig configures the filler word vocabulary and stats formatting.
type TrackerConfig struct {
	FillerWords   []string `mapstructure:"filler_words"`
	StatsTopWords int      `mapstructure:"stats_top_words" validate:"min=1,max=25"`
}

// SchedulerConfig holds the scheduled task definitions keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a single scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds all user-facing bot messages.
type MessagesConfig struct {
	Welcome           string `mapstructure:"welcome"`
	Stop              string `mapstructure:"stop"`
	Help              string `mapstructure:"help"`
	NotActive         string `mapstructure:"not_active"`
	UnauthorizedUser  string `mapstructure:"unauthorized_user"`
	UnauthorizedAdmin string `mapstructure:"unauthorized_admin"`
	Detected          string `mapstructure:"detected"`
	StatsHeader       string `mapstructure:"stats_header"`
	StatsToday        string `mapstructure:"stats_today"`
	StatsMonth        string `mapstructure:"stats_month"`
	StatsAllTime      string `mapstructure:"stats_all_time"`
	NoStats           string `mapstructure:"no_stats"`
	ResetConfirm      string `mapstructure:"reset_confirm"`
	GroupResetConfirm string `mapstructure:"group_reset_confirm"`
	GeneralError      string `mapstructure:"general_error"`
}

// IsAdmin reports whether the given username is in the admin list.
// An empty admin list grants admin rights to everyone.
func (c *TelegramConfig) IsAdmin(username string) bool {
	return handleInList(username, c.AdminUsernames)
}

// IsAllowed reports whether the given username may use the bot.
// An empty allowed list permits everyone.
func (c *TelegramConfig) IsAllowed(username string) bool {
	return handleInList(username, c.AllowedUsernames)
}

func handleInList(username string, handles []string) bool {
	if len(handles) == 0 {
		return true
	}
	if username == "" {
		return false
	}
	for _, h := range handles {
		if strings.TrimPrefix(h, "@") == username {
			return true
		}
	}
	return false
}

// LoadConfig reads configuration from the given YAML file path, applies
// defaults and BOT_* environment variable overrides, and validates the
// result. A missing config file is not an error; defaults and environment
// variables are used instead.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		slog.Info("Config file not found, using defaults and environment", "path", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Tracker.FillerWords = normalizeWords(cfg.Tracker.FillerWords)
	if len(cfg.Tracker.FillerWords) == 0 {
		slog.Warn("No filler words configured; nothing will be detected")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// normalizeWords trims whitespace and drops empty entries while keeping
// the configured order.
func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("database.path", "fillerbot.db")

	v.SetDefault("tracker.filler_words", []string{})
	v.SetDefault("tracker.stats_top_words", 5)

	v.SetDefault("messages.welcome",
		"👋 Hello! I'm a Filler Words Detector Bot!\n\n"+
			"I track filler words in your messages and provide statistics.\n\n"+
			"*Commands:*\n"+
			"• /start - Start tracking filler words\n"+
			"• /stop - Stop tracking filler words\n"+
			"• /stats - View your usage statistics\n"+
			"• /reset - Reset your statistics in this chat\n"+
			"• /group\\_reset - Reset statistics for the whole chat\n\n"+
			"*How it works:*\n"+
			"I'll monitor all messages and notify you when filler words are detected. "+
			"You can view stats for today, the last 30 days, or all time!")
	v.SetDefault("messages.stop", "🛑 Filler words tracking stopped. Use /start to resume tracking.")
	v.SetDefault("messages.help",
		"*Commands:*\n"+
			"• /start - Start tracking filler words\n"+
			"• /stop - Stop tracking filler words\n"+
			"• /stats - View your usage statistics\n"+
			"• /reset - Reset your statistics in this chat\n"+
			"• /group\\_reset - Reset statistics for the whole chat")
	v.SetDefault("messages.not_active", "Bot is not tracking in this chat. Use /start to activate.")
	v.SetDefault("messages.unauthorized_user", "Sorry, you are not authorized to use this bot.")
	v.SetDefault("messages.unauthorized_admin", "Sorry, only administrators can manage this bot.")
	v.SetDefault("messages.detected", "🔔 Filler word detected: %s")
	v.SetDefault("messages.stats_header", "📊 *Filler Words Statistics*\n\n")
	v.SetDefault("messages.stats_today", "📅 *Today's Stats:*\n")
	v.SetDefault("messages.stats_month", "📆 *Last 30 Days:*\n")
	v.SetDefault("messages.stats_all_time", "🕐 *All-Time Stats:*\n")
	v.SetDefault("messages.no_stats", "No filler words detected yet. Keep chatting!")
	v.SetDefault("messages.reset_confirm", "🧹 Your statistics for this chat have been reset.")
	v.SetDefault("messages.group_reset_confirm", "🧹 Statistics for this chat have been reset.")
	v.SetDefault("messages.general_error", "❌ An error occurred. Please try again later.")
}
