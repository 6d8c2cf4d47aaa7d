package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tlou-esports/te-suggestions/src/data"
	"gorm.io/gorm"
)

// LoadEnv reads .env style files into the process environment. Missing
// files are not an error; existing variables are never overwritten.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Printf("config: load %s: %v", f, err)
		}
	}
}

// Base contains common configuration fields
type Base struct {
	Token           string
	GuildID         string
	AppEnv          string
	SentryDSN       string
	CommunityName   string
	Language        string
	DispatchWorkers int
}

// LoadBase loads common configuration (discord token, guild ID, error reporting)
func LoadBase(db *gorm.DB) Base {
	if db != nil {
		if err := data.LoadSettings(db); err != nil {
			log.Printf("config: load settings: %v (using environment)", err)
		}
	}

	return Base{
		Token:           GetSetting("discord_token", "DISCORD_TOKEN", ""),
		GuildID:         GetSetting("guild_id", "GUILD_ID", ""),
		AppEnv:          GetSetting("app_env", "APP_ENV", "production"),
		SentryDSN:       GetSetting("sentry_dsn", "SENTRY_DSN", ""),
		CommunityName:   GetSetting("community_name", "COMMUNITY_NAME", "TLOU Esports"),
		Language:        GetSetting("default_language", "DEFAULT_LANGUAGE", "en"),
		DispatchWorkers: getIntSetting("dispatch_workers", "DISPATCH_WORKERS", 1),
	}
}

// DatabaseConfig is read from the environment only, since it is needed
// before the settings table can be reached.
type DatabaseConfig struct {
	Driver   string
	DSN      string
	RedisURL string
}

func LoadDatabaseConfig() DatabaseConfig {
	driver := strings.ToLower(envOr("DB_DRIVER", data.DriverMySQL))
	dsn := os.Getenv("MYSQL_DSN")
	if driver == data.DriverSQLite {
		dsn = envOr("SQLITE_PATH", "data/te-suggestions.db")
	}
	return DatabaseConfig{
		Driver:   driver,
		DSN:      dsn,
		RedisURL: os.Getenv("REDIS_URL"),
	}
}

// GetSetting retrieves a setting with env fallback
func GetSetting(name, envKey, defaultValue string) string {
	val := data.GetSetting(name)
	if val == "" && envKey != "" {
		val = os.Getenv(envKey)
	}
	if val == "" {
		val = defaultValue
	}
	return val
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBoolSetting(settingKey, envKey string, defaultValue bool) bool {
	if v := data.GetSetting(settingKey); v != "" {
		return parseBoolDefault(v, defaultValue)
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			return parseBoolDefault(v, defaultValue)
		}
	}
	return defaultValue
}

func getIntSetting(settingKey, envKey string, defaultValue int) int {
	raw := GetSetting(settingKey, envKey, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("config: %s=%q is not a number, using %d", settingKey, raw, defaultValue)
		return defaultValue
	}
	return n
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseCSV(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
