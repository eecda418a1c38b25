package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultJwtSecret = "your-secret-key"

type Config struct {
	GeneralVersion string `mapstructure:"GENERAL_VERSION"`
	Environment    string `mapstructure:"ENVIRONMENT"`

	ServerPort        int    `mapstructure:"SERVER_PORT"`
	ServerCorsOrigins string `mapstructure:"SERVER_CORS_ORIGINS"`

	DatabaseDriver       string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDbPath       string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseHost         string `mapstructure:"DATABASE_HOST"`
	DatabasePort         int    `mapstructure:"DATABASE_PORT"`
	DatabaseUser         string `mapstructure:"DATABASE_USER"`
	DatabasePassword     string `mapstructure:"DATABASE_PASSWORD"`
	DatabaseName         string `mapstructure:"DATABASE_NAME"`
	DatabaseCacheAddress string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DATABASE_CACHE_PORT"`

	SecurityJwtSecret      string        `mapstructure:"SECURITY_JWT_SECRET"`
	SecurityJwtIssuer      string        `mapstructure:"SECURITY_JWT_ISSUER"`
	SecurityJwtExpiry      time.Duration `mapstructure:"SECURITY_JWT_EXPIRY"`
	SecurityLoginRateLimit int           `mapstructure:"SECURITY_LOGIN_RATE_LIMIT"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	ReportingTimezone string `mapstructure:"REPORTING_TIMEZONE"`

	ValidationRelationships string `mapstructure:"VALIDATION_RELATIONSHIPS"`
	ValidationPhoneRegion   string `mapstructure:"VALIDATION_PHONE_REGION"`

	LogLevel         string `mapstructure:"LOG_LEVEL"`
	LogFormat        string `mapstructure:"LOG_FORMAT"`
	LogFilePath      string `mapstructure:"LOG_FILE_PATH"`
	LogFileMaxSizeMB int    `mapstructure:"LOG_FILE_MAX_SIZE_MB"`
	LogFileBackups   int    `mapstructure:"LOG_FILE_BACKUPS"`
	LogFileMaxAge    int    `mapstructure:"LOG_FILE_MAX_AGE_DAYS"`

	MailEnabled  bool   `mapstructure:"MAIL_ENABLED"`
	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUsername string `mapstructure:"MAIL_USERNAME"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
}

var defaults = map[string]any{
	"GENERAL_VERSION":           "1.0.0",
	"ENVIRONMENT":               "development",
	"SERVER_PORT":               3000,
	"SERVER_CORS_ORIGINS":       "*",
	"DATABASE_DRIVER":           "sqlite",
	"DATABASE_DB_PATH":          "data/portal.db",
	"DATABASE_HOST":             "localhost",
	"DATABASE_PORT":             5432,
	"DATABASE_USER":             "",
	"DATABASE_PASSWORD":         "",
	"DATABASE_NAME":             "family_pension_db",
	"DATABASE_CACHE_ADDRESS":    "",
	"DATABASE_CACHE_PORT":       6379,
	"SECURITY_JWT_SECRET":       DefaultJwtSecret,
	"SECURITY_JWT_ISSUER":       "pension-portal",
	"SECURITY_JWT_EXPIRY":       "24h",
	"SECURITY_LOGIN_RATE_LIMIT": 10,
	"ADMIN_USERNAME":            "admin",
	"ADMIN_EMAIL":               "admin@pagmumbai.gov.in",
	"ADMIN_PASSWORD":            "admin123",
	"REPORTING_TIMEZONE":        "Local",
	"VALIDATION_RELATIONSHIPS":  "spouse,son,daughter,parent,child,sibling",
	"VALIDATION_PHONE_REGION":   "IN",
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "text",
	"LOG_FILE_PATH":             "",
	"LOG_FILE_MAX_SIZE_MB":      50,
	"LOG_FILE_BACKUPS":          5,
	"LOG_FILE_MAX_AGE_DAYS":     30,
	"MAIL_ENABLED":              false,
	"MAIL_HOST":                 "",
	"MAIL_PORT":                 587,
	"MAIL_USERNAME":             "",
	"MAIL_PASSWORD":             "",
	"MAIL_FROM":                 "",
}

// InitConfig reads an optional .env file and the process environment, the
// environment winning.
func InitConfig() (Config, error) {
	return load(".env")
}

func load(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.ServerPort <= 0 {
		return errors.New("server port must be positive")
	}

	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabaseDbPath == "" {
			return errors.New("database path is empty")
		}
	case "postgres":
		if c.DatabaseHost == "" || c.DatabaseName == "" {
			return errors.New("database host or name is empty")
		}
	default:
		return errors.New("unsupported database driver: " + c.DatabaseDriver)
	}

	if c.SecurityJwtSecret == "" {
		return errors.New("jwt secret is empty")
	}

	if c.IsProduction() && c.SecurityJwtSecret == DefaultJwtSecret {
		return errors.New("jwt secret must be changed in production")
	}

	if c.SecurityJwtExpiry <= 0 {
		return errors.New("jwt expiry must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// Location is the zone used to bucket submissions into calendar months.
func (c Config) Location() (*time.Location, error) {
	if c.ReportingTimezone == "" || c.ReportingTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.ReportingTimezone)
}

func (c Config) Relationships() []string {
	var relationships []string
	for _, r := range strings.Split(c.ValidationRelationships, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			relationships = append(relationships, r)
		}
	}
	return relationships
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != ""
}
