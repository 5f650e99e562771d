package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// конфигурация целиком из переменных окружения:
// HOST, PORT, DATABASE, COLLECTION задают хранилище,
// LOG_LEVEL и APP_NAME - поведение приложения

type Config struct {
	Store   StoreConfig
	Server  ServerConfig
	Logging LoggingConfig
	AppName string
}

type StoreConfig struct {
	Type       string // "postgres" или "inmemory"
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	Collection string
}

type ServerConfig struct {
	Enabled bool
	Port    string
}

type LoggingConfig struct {
	Development bool
	Level       string
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("REPOSITORY", "postgres")
	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DATABASE", "task_management")
	v.SetDefault("COLLECTION", "tasks")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", true)
	v.SetDefault("APP_NAME", "Task Management Application")
	v.SetDefault("HTTP_ENABLED", false)
	v.SetDefault("HTTP_PORT", "8080")

	cfg := &Config{
		Store: StoreConfig{
			Type:       v.GetString("REPOSITORY"),
			Host:       v.GetString("HOST"),
			Port:       v.GetInt("PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Database:   v.GetString("DATABASE"),
			Collection: v.GetString("COLLECTION"),
		},
		Server: ServerConfig{
			Enabled: v.GetBool("HTTP_ENABLED"),
			Port:    v.GetString("HTTP_PORT"),
		},
		Logging: LoggingConfig{
			Development: v.GetBool("LOG_DEVELOPMENT"),
			Level:       v.GetString("LOG_LEVEL"),
		},
		AppName: v.GetString("APP_NAME"),
	}

	if cfg.Store.Type != "postgres" && cfg.Store.Type != "inmemory" {
		return nil, fmt.Errorf("неизвестный тип репозитория: %s", cfg.Store.Type)
	}

	return cfg, nil
}

func (c *Config) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.Store.User, c.Store.Password, c.Store.Host, c.Store.Port, c.Store.Database)
}

func (c *Config) GetServerAddr() string {
	return ":" + c.Server.Port
}
