package api

import (
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
	AuthConfig
}

type StorageConfig struct {
	DatabasePath string
}

type ServerConfig struct {
	Port int
}

type AuthConfig struct {
	SessionSecret string
}

func ReadConfig() *Config {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("storage.databasePath", "evoting.db")

	return &Config{
		StorageConfig: StorageConfig{
			DatabasePath: viper.GetString("storage.databasePath"),
		},
		ServerConfig: ServerConfig{
			Port: viper.GetInt("server.port"),
		},
		AuthConfig: AuthConfig{
			SessionSecret: viper.GetString("auth.sessionSecret"),
		},
	}
}
