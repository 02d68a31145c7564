package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort   string
	JWTSecret string
	// BaseURL is the public portal address embedded in coupon scan links.
	BaseURL            string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for settings cache and the officer token blacklist
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// SMTP for coupon delivery
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      bool
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Attendance officer account
	AdminUsername     string
	AdminName         string
	AdminPasswordHash string
	// OpenCouponsUncapped preserves the historical behavior of the open pool
	// ignoring its configured cap. Set false to enforce openCoupons.
	OpenCouponsUncapped bool
	// StatsRetainDays controls the background cleaner's retention window.
	StatsRetainDays int
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during
// boot. Precedence: config/config.json -> defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}
	if cfg.AdminPasswordHash == "" {
		log.Fatal("ADMIN_PASSWORD_HASH must be set; generate it with bcrypt")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// SetForTesting replaces the cached configuration. Test helper only.
func SetForTesting(c AppConfig) {
	cfg = c
	loaded = true
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	if app, ok := raw["app"]; ok {
		readString(app, "AppPort", &out.AppPort)
		readString(app, "JWTSecret", &out.JWTSecret)
		readString(app, "BaseURL", &out.BaseURL)
		readInt(app, "RateLimitPerMinute", &out.RateLimitPerMinute)
		readStringSlice(app, "AllowedOrigins", &out.AllowedOrigins)
		readBool(app, "OpenCouponsUncapped", &out.OpenCouponsUncapped)
		readInt(app, "StatsRetainDays", &out.StatsRetainDays)
	}
	if g, ok := raw["gin"]; ok {
		readString(g, "Mode", &out.GinMode)
		readString(g, "LogPath", &out.GinPath)
	}
	if dbs, ok := raw["database"]; ok {
		readString(dbs, "DatabaseURI", &out.DatabaseURI)
		readString(dbs, "DBHost", &out.DBHost)
		readString(dbs, "DBPort", &out.DBPort)
		readString(dbs, "DBUser", &out.DBUser)
		readString(dbs, "DBPassword", &out.DBPassword)
		readString(dbs, "DBName", &out.DBName)
	}
	if rds, ok := raw["redis"]; ok {
		readString(rds, "RedisHost", &out.RedisHost)
		readInt(rds, "RedisPort", &out.RedisPort)
		readInt(rds, "RedisDB", &out.RedisDB)
		readString(rds, "RedisPassword", &out.RedisPassword)
	}
	if sm, ok := raw["smtp"]; ok {
		readString(sm, "SMTPHost", &out.SMTPHost)
		readInt(sm, "SMTPPort", &out.SMTPPort)
		readString(sm, "SMTPUsername", &out.SMTPUsername)
		readString(sm, "SMTPPassword", &out.SMTPPassword)
		readString(sm, "SMTPFrom", &out.SMTPFrom)
		readString(sm, "SMTPFromName", &out.SMTPFromName)
		readBool(sm, "SMTPTLS", &out.SMTPTLS)
	}
	if lg, ok := raw["log"]; ok {
		readString(lg, "Level", &out.LogLevel)
		readString(lg, "Path", &out.LogPath)
		readInt(lg, "MaxSizeMB", &out.LogMaxSizeMB)
		readInt(lg, "MaxBackups", &out.LogMaxBackups)
		readInt(lg, "MaxAgeDays", &out.LogMaxAgeDays)
		readBool(lg, "Compress", &out.LogCompress)
	}
	if adm, ok := raw["admin"]; ok {
		readString(adm, "Username", &out.AdminUsername)
		readString(adm, "Name", &out.AdminName)
		readString(adm, "PasswordHash", &out.AdminPasswordHash)
	}

	return nil
}

func readString(m map[string]any, key string, dst *string) {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			*dst = s
		}
	}
}

func readInt(m map[string]any, key string, dst *int) {
	if v, ok := m[key]; ok {
		switch t := v.(type) {
		case float64:
			*dst = int(t)
		case int:
			*dst = t
		}
	}
}

func readBool(m map[string]any, key string, dst *bool) {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			*dst = b
		}
	}
}

func readStringSlice(m map[string]any, key string, dst *[]string) {
	if v, ok := m[key]; ok {
		if arr, ok := v.([]any); ok {
			res := make([]string, 0, len(arr))
			for _, it := range arr {
				if s, ok := it.(string); ok {
					res = append(res, s)
				}
			}
			if len(res) > 0 {
				*dst = res
			}
		}
	}
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "food_coupons"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.AdminName == "" {
		c.AdminName = "Attendance Officer"
	}
	if c.StatsRetainDays == 0 {
		c.StatsRetainDays = 90
	}
	// Historical behavior: the open pool ignores its cap unless explicitly
	// switched off via OPEN_COUPONS_UNCAPPED=false.
	if _, present := os.LookupEnv("OPEN_COUPONS_UNCAPPED"); !present {
		c.OpenCouponsUncapped = true
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	overrideString("APP_PORT", &c.AppPort)
	overrideString("JWT_SECRET", &c.JWTSecret)
	overrideString("BASE_URL", &c.BaseURL)
	overrideString("GIN_MODE", &c.GinMode)
	overrideString("GIN_PATH", &c.GinPath)
	overrideInt("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}

	overrideString("DATABASE_URI", &c.DatabaseURI)
	overrideString("DB_HOST", &c.DBHost)
	overrideString("DB_PORT", &c.DBPort)
	overrideString("DB_USER", &c.DBUser)
	overrideString("DB_PASSWORD", &c.DBPassword)
	overrideString("DB_NAME", &c.DBName)

	overrideString("REDIS_HOST", &c.RedisHost)
	overrideInt("REDIS_PORT", &c.RedisPort)
	overrideInt("REDIS_DB", &c.RedisDB)
	overrideString("REDIS_PASSWORD", &c.RedisPassword)

	overrideString("SMTP_HOST", &c.SMTPHost)
	overrideInt("SMTP_PORT", &c.SMTPPort)
	overrideString("SMTP_USERNAME", &c.SMTPUsername)
	overrideString("SMTP_PASSWORD", &c.SMTPPassword)
	overrideString("SMTP_FROM", &c.SMTPFrom)
	overrideString("SMTP_FROM_NAME", &c.SMTPFromName)
	overrideBool("SMTP_TLS", &c.SMTPTLS)

	overrideString("LOG_LEVEL", &c.LogLevel)
	overrideString("LOG_PATH", &c.LogPath)
	overrideInt("LOG_MAX_SIZE_MB", &c.LogMaxSizeMB)
	overrideInt("LOG_MAX_BACKUPS", &c.LogMaxBackups)
	overrideInt("LOG_MAX_AGE_DAYS", &c.LogMaxAgeDays)
	overrideBool("LOG_COMPRESS", &c.LogCompress)

	overrideString("ADMIN_USERNAME", &c.AdminUsername)
	overrideString("ADMIN_NAME", &c.AdminName)
	overrideString("ADMIN_PASSWORD_HASH", &c.AdminPasswordHash)
	overrideBool("OPEN_COUPONS_UNCAPPED", &c.OpenCouponsUncapped)
	overrideInt("STATS_RETAIN_DAYS", &c.StatsRetainDays)
}

func overrideString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s: %v", key, err)
		}
		*dst = i
	}
}

func overrideBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true"
	}
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
