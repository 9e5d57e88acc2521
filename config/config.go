// config/config.go
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslMode"`
}

type RedisConfig struct {
	// Addr left empty selects the in-process cache.
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type DispatchConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var envBindings = map[string]string{
	"server.port":       "SERVER_PORT",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.name":     "DB_NAME",
	"database.sslMode":  "DB_SSLMODE",
	"redis.addr":        "REDIS_ADDR",
	"redis.username":    "REDIS_USERNAME",
	"redis.password":    "REDIS_PASSWORD",
	"redis.db":          "REDIS_DB",
	"cache.ttl":         "CACHE_TTL",
	"jwt.secret":        "JWT_SECRET",
	"jwt.expiration":    "JWT_EXPIRATION",
	"admin.username":    "ADMIN_USERNAME",
	"admin.password":    "ADMIN_PASSWORD",
	"dispatch.delay":    "DISPATCH_DELAY",
	"storage.driver":    "STORAGE_DRIVER",
	"log.development":   "LOG_DEVELOPMENT",
}

// LoadConfig reads config.yaml from path when present and lets environment
// variables override it.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "50051")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("dispatch.delay", "10s")
	v.SetDefault("storage.driver", DriverPostgres)

	v.AutomaticEnv()
	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return
		}
	}

	// Without a config file only defaults and the environment apply.
	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	switch c.Storage.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Dispatch.Delay < 0 {
		return errors.New("dispatch delay must not be negative")
	}
	return nil
}

// DSN is the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c ServerConfig) Addr() string {
	return ":" + c.Port
}
