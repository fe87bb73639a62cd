package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Catalog CatalogConfig
	Storage StorageConfig
	JWT     JWTConfig
}

type AppConfig struct {
	Env      string // development, production
	LogLevel string
	GinMode  string
}

type HTTPConfig struct {
	Port string
}

// CatalogConfig points at the baseline db.json, a file path or http(s) URL
type CatalogConfig struct {
	Source       string
	FetchTimeout time.Duration
}

type StorageConfig struct {
	Driver      string // sqlite, file, redis, memory
	Path        string // sqlite database file or fragments directory
	RedisAddr   string
	RedisPrefix string
}

type JWTConfig struct {
	Secret     string
	SessionTTL time.Duration // 0 keeps sessions until logout
}

// Load reads configuration from the environment, optionally seeded from a
// .env or config.env file in the working directory. Env vars win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.AddConfigPath(".")
	for _, name := range []string{".env", "config"} {
		v.SetConfigName(name)
		_ = v.MergeInConfig() // missing files are fine
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
			GinMode:  v.GetString("GIN_MODE"),
		},
		HTTP: HTTPConfig{Port: v.GetString("PORT")},
		Catalog: CatalogConfig{
			Source:       v.GetString("CATALOG_SOURCE"),
			FetchTimeout: time.Duration(v.GetInt("FETCH_TIMEOUT_SECONDS")) * time.Second,
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Path:        v.GetString("STORAGE_PATH"),
			RedisAddr:   v.GetString("REDIS_ADDR"),
			RedisPrefix: v.GetString("REDIS_PREFIX"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			SessionTTL: time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CATALOG_SOURCE", "db.json")
	v.SetDefault("FETCH_TIMEOUT_SECONDS", 10)
	v.SetDefault("STORAGE_DRIVER", "sqlite")
	v.SetDefault("STORAGE_PATH", "restore.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PREFIX", "ce_")
	v.SetDefault("JWT_SECRET", "restore_device_secret_change_me")
	v.SetDefault("SESSION_TTL_MINUTES", 0)
}
