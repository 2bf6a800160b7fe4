package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int `mapstructure:"idle_timeout_sec"`
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret string
	Issuer string
	// ExpiresInSec is kept in seconds, matching jsonwebtoken's numeric expiresIn.
	ExpiresInSec int `mapstructure:"expires_in_sec"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Github struct {
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TimeoutSec   int    `mapstructure:"timeout_sec"`
	CacheTTLSec  int    `mapstructure:"cache_ttl_sec"`
}

// Limits configures the global middleware chain.
type Limits struct {
	RateRPS           float64  `mapstructure:"rate_rps"`
	RateBurst         int      `mapstructure:"rate_burst"`
	MaxConcurrency    int64    `mapstructure:"max_concurrency"`
	MaxBodyBytes      int64    `mapstructure:"max_body_bytes"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec"`
	LoginRateRPS      float64  `mapstructure:"login_rate_rps"`
	LoginRateBurst    int      `mapstructure:"login_rate_burst"`
	CORSOrigins       []string `mapstructure:"cors_origins"`
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis  `mapstructure:"redis"`
	Github Github `mapstructure:"github"`
	HTTP   Limits `mapstructure:"http"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "devconnector")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "devconnector")
	v.SetDefault("jwt.expires_in_sec", 360000)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "devconnector.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20) // sqlite 驱动下固定为 1
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.client_id", "")
	v.SetDefault("github.client_secret", "")
	v.SetDefault("github.timeout_sec", 5)
	v.SetDefault("github.cache_ttl_sec", 300)

	v.SetDefault("http.rate_rps", 200)
	v.SetDefault("http.rate_burst", 400)
	v.SetDefault("http.max_concurrency", 300)
	v.SetDefault("http.max_body_bytes", 1<<20)
	v.SetDefault("http.request_timeout_sec", 10)
	v.SetDefault("http.login_rate_rps", 1)
	v.SetDefault("http.login_rate_burst", 10)
	v.SetDefault("http.cors_origins", []string{"*"})
}

// Load reads the yaml file at path (or CONFIG_PATH, or the local default)
// and applies APP_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	// 环境变量覆盖：APP_DB_DSN → db.dsn
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 文件不存在时只用默认值 + 环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, c.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required")
	}
	if c.JWT.ExpiresInSec <= 0 {
		return errors.New("config: jwt.expires_in_sec must be positive")
	}
	return nil
}
