package config

import (
	"time"

	"gorm.io/gorm"
)

// Store backends for the suggestions document.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// StoreConfig selects where the suggestions document lives.
type StoreConfig struct {
	Backend  string
	File     string
	RedisKey string
	// Vote keys written by the earlier bot, folded into approve/reject on load.
	LegacyApproveKey string
	LegacyRejectKey  string
}

func LoadStoreConfig() StoreConfig {
	backend := GetSetting("suggestions_store", "SUGGESTIONS_STORE", StoreFile)
	if backend != StoreRedis {
		backend = StoreFile
	}
	return StoreConfig{
		Backend:          backend,
		File:             GetSetting("suggestions_file", "SUGGESTIONS_FILE", "data/suggestions.json"),
		RedisKey:         GetSetting("suggestions_redis_key", "SUGGESTIONS_REDIS_KEY", "suggestions:document"),
		LegacyApproveKey: GetSetting("legacy_approve_vote_key", "LEGACY_APPROVE_VOTE_KEY", "<:Tick:1422628423620366469>"),
		LegacyRejectKey:  GetSetting("legacy_reject_vote_key", "LEGACY_REJECT_VOTE_KEY", "<:Cross:1422628421913149440>"),
	}
}

// SuggestionsConfig holds the suggestion module configuration
type SuggestionsConfig struct {
	Base
	Store            StoreConfig
	ChannelID        string
	ReviewChannelID  string
	StaffRoleID      string
	ApproveEmoji     string
	RejectEmoji      string
	AllowRedecide    bool
	CleanChannel     bool
	PublishDecisions bool
	UserCacheTTL     time.Duration
	Enabled          bool
}

// LoadSuggestionsConfig loads suggestion module configuration
func LoadSuggestionsConfig(db *gorm.DB) SuggestionsConfig {
	base := LoadBase(db)
	channelID := GetSetting("suggestions_channel_id", "SUGGESTIONS_CHANNEL_ID", "")

	return SuggestionsConfig{
		Base:             base,
		Store:            LoadStoreConfig(),
		ChannelID:        channelID,
		ReviewChannelID:  GetSetting("reviewed_channel_id", "REVIEWED_CHANNEL_ID", channelID),
		StaffRoleID:      GetSetting("staff_role_id", "STAFF_ROLE_ID", ""),
		ApproveEmoji:     GetSetting("approve_emoji", "APPROVE_EMOJI", "✅"),
		RejectEmoji:      GetSetting("reject_emoji", "REJECT_EMOJI", "❌"),
		AllowRedecide:    getBoolSetting("allow_redecide", "ALLOW_REDECIDE", false),
		CleanChannel:     getBoolSetting("clean_suggestions_channel", "CLEAN_SUGGESTIONS_CHANNEL", true),
		PublishDecisions: getBoolSetting("publish_decisions", "PUBLISH_DECISIONS", true),
		UserCacheTTL:     time.Duration(getIntSetting("user_cache_minutes", "USER_CACHE_MINUTES", 30)) * time.Minute,
		Enabled:          getBoolSetting("enable_suggestions", "ENABLE_SUGGESTIONS", true),
	}
}

// RemindersConfig holds the reminder module configuration
type RemindersConfig struct {
	Base
	Interval       time.Duration
	UTCOffsetHours int
	Dedupe         bool
	StaffOnly      bool
	Enabled        bool
}

// LoadRemindersConfig loads reminder module configuration
func LoadRemindersConfig(db *gorm.DB) RemindersConfig {
	base := LoadBase(db)
	interval := getIntSetting("reminder_interval_seconds", "REMINDER_INTERVAL_SECONDS", 30)
	if interval <= 0 {
		interval = 30
	}

	return RemindersConfig{
		Base:           base,
		Interval:       time.Duration(interval) * time.Second,
		UTCOffsetHours: getIntSetting("reminder_utc_offset_hours", "REMINDER_UTC_OFFSET_HOURS", 8),
		Dedupe:         getBoolSetting("reminder_dedupe", "REMINDER_DEDUPE", true),
		StaffOnly:      getBoolSetting("reminder_staff_only", "REMINDER_STAFF_ONLY", false),
		Enabled:        getBoolSetting("enable_reminders", "ENABLE_REMINDERS", true),
	}
}

// APIConfig holds the read-only HTTP API configuration
type APIConfig struct {
	Enabled     bool
	Addr        string
	JWTSecret   string
	CORSOrigins []string
}

// LoadAPIConfig loads HTTP API configuration
func LoadAPIConfig(db *gorm.DB) APIConfig {
	_ = LoadBase(db)
	return APIConfig{
		Enabled:     getBoolSetting("api_enabled", "API_ENABLED", false),
		Addr:        GetSetting("api_addr", "API_ADDR", ":8080"),
		JWTSecret:   GetSetting("jwt_secret", "JWT_SECRET", ""),
		CORSOrigins: parseCSV(GetSetting("api_cors_origins", "API_CORS_ORIGINS", "")),
	}
}
