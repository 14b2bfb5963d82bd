package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	ServiceHost  string
	ServicePort  int `validate:"gt=0,lte=65535"`
	AllowOrigins []string

	API     APIConfig
	Assets  AssetsConfig
	Log     LogConfig
	Session SessionConfig
	Redis   RedisConfig
}

type APIConfig struct {
	BaseURL     string `validate:"required,url"`
	AssetOrigin string `validate:"omitempty,url"`
	Timeout     time.Duration
	RetryCount  int `validate:"gte=0"`
}

type AssetsConfig struct {
	MaxBytes int64 `validate:"gte=0"`
}

type LogConfig struct {
	Level string `validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
}

type SessionConfig struct {
	Backend string `validate:"oneof=memory redis"`
	Key     string
	Roles   []string
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DB          int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"
	envAPIBase   = "API_BASE_URL"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("ServiceHost", "127.0.0.1")
	v.SetDefault("ServicePort", 8081)
	v.SetDefault("API.Timeout", 15*time.Second)
	v.SetDefault("API.RetryCount", 0)
	v.SetDefault("Assets.MaxBytes", 5<<20)
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Session.Backend", SessionBackendMemory)
	v.SetDefault("Session.Key", "admin:session:token")
	v.SetDefault("Session.Roles", []string{"admin"})
}

// NewConfig reads config/<CONFIG_NAME>.toml (config.toml by default), then
// the environment, .env included.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configName := "config"
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Info("config parsed")

	return cfg, nil
}

// applyEnv overlays secrets and deployment specific values.
func applyEnv(cfg *Config) error {
	if base := os.Getenv(envAPIBase); base != "" {
		cfg.API.BaseURL = base
	}

	if host := os.Getenv(envRedisHost); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv(envRedisPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("redis port must be int value: %w", err)
		}
		cfg.Redis.Port = p
	}
	if pass := os.Getenv(envRedisPass); pass != "" {
		cfg.Redis.Password = pass
	}
	if user := os.Getenv(envRedisUser); user != "" {
		cfg.Redis.User = user
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 10 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 10 * time.Second
	}

	cfg.Session.Backend = strings.ToLower(cfg.Session.Backend)
	if cfg.Session.Backend == SessionBackendRedis && (cfg.Redis.Host == "" || cfg.Redis.Port == 0) {
		return fmt.Errorf("session backend redis needs %s and %s", envRedisHost, envRedisPort)
	}
	return nil
}

// RedisAddr is host:port of the session redis.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// LogLevel parses Log.Level, falling back to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
