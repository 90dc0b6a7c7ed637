package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"event-checkin/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Import   ImportConfig   `mapstructure:"import"`
	Asset    AssetConfig    `mapstructure:"asset"`
	Checkin  CheckinConfig  `mapstructure:"checkin"`
}

type AppConfig struct {
	Name      string `mapstructure:"name"`
	Env       string `mapstructure:"env"`
	Port      int    `mapstructure:"port"`
	Timezone  string `mapstructure:"timezone"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	DSN             string `mapstructure:"dsn"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // in minutes
}

type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	LookupTTL time.Duration `mapstructure:"lookup_ttl"`
}

type AdminConfig struct {
	PIN              string        `mapstructure:"pin"`
	PINHash          string        `mapstructure:"pin_hash"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	MaxLoginAttempts int           `mapstructure:"max_login_attempts"`
	BlockDuration    time.Duration `mapstructure:"block_duration"`
}

type ImportConfig struct {
	// Rows whose normalized email is shorter than this are dropped.
	MinEmailLength int   `mapstructure:"min_email_length"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

type AssetConfig struct {
	Backend        string   `mapstructure:"backend"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
	S3             S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type CheckinConfig struct {
	// ConfirmDelay paces the UI after a confirmation; it is not a concurrency control.
	ConfirmDelay time.Duration `mapstructure:"confirm_delay"`
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Get returns the loaded configuration and panics if Load has not been called.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: not initialized")
	}
	return cfg
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// Load reads .env (if present), an optional config file and the environment.
// Environment keys map dots to underscores, e.g. database.driver -> DATABASE_DRIVER.
func Load(configPaths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{".", "./config"}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Set(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "event-checkin")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 7070)
	v.SetDefault("app.timezone", constants.DefaultTimezone)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	v.SetDefault("database.driver", constants.DatabaseDriverSQLite)
	v.SetDefault("database.dsn", "checkin.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "checkin")
	v.SetDefault("database.sslmode", constants.DatabaseSSLMode)
	v.SetDefault("database.max_open_conns", constants.DatabaseMaxOpenConns)
	v.SetDefault("database.max_idle_conns", constants.DatabaseMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", constants.DatabaseConnMaxLifetime)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lookup_ttl", "10m")

	v.SetDefault("admin.pin", constants.DefaultAdminPIN)
	v.SetDefault("admin.pin_hash", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.token_ttl", constants.DefaultTokenTTL.String())
	v.SetDefault("admin.max_login_attempts", constants.MaxLoginAttempts)
	v.SetDefault("admin.block_duration", constants.BlockDuration.String())

	v.SetDefault("import.min_email_length", constants.DefaultMinEmailLength)
	v.SetDefault("import.max_upload_bytes", constants.DefaultMaxUploadBytes)

	v.SetDefault("asset.backend", "database")
	v.SetDefault("asset.max_upload_bytes", constants.DefaultMaxUploadBytes)
	v.SetDefault("asset.s3.bucket", "")
	v.SetDefault("asset.s3.region", "ap-southeast-1")
	v.SetDefault("asset.s3.endpoint", "")
	v.SetDefault("asset.s3.access_key", "")
	v.SetDefault("asset.s3.secret_key", "")
	v.SetDefault("asset.s3.prefix", "assets")

	v.SetDefault("checkin.confirm_delay", "0s")
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Driver {
	case constants.DatabaseDriverSQLite, constants.DatabaseDriverPostgres:
	default:
		problems = append(problems, fmt.Sprintf("database.driver must be %q or %q", constants.DatabaseDriverSQLite, constants.DatabaseDriverPostgres))
	}
	if c.Database.Driver == constants.DatabaseDriverSQLite && c.Database.DSN == "" {
		problems = append(problems, "database.dsn is required for sqlite")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		problems = append(problems, "app.port must be between 1 and 65535")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("app.timezone %q is invalid", c.App.Timezone))
	}
	if c.Admin.PIN == "" && c.Admin.PINHash == "" {
		problems = append(problems, "admin.pin or admin.pin_hash is required")
	}
	if c.Import.MinEmailLength < 1 {
		problems = append(problems, "import.min_email_length must be at least 1")
	}
	switch c.Asset.Backend {
	case "database":
	case "s3":
		if c.Asset.S3.Bucket == "" {
			problems = append(problems, "asset.s3.bucket is required for the s3 backend")
		}
	default:
		problems = append(problems, "asset.backend must be \"database\" or \"s3\"")
	}
	if c.Checkin.ConfirmDelay < 0 {
		problems = append(problems, "checkin.confirm_delay must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the fixed local timezone used for check-in timestamps.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
