package api

import (
	"github.com/1abdulhaseeb/votely/logging"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
}

type StorageConfig struct {
	// Driver selects the poll store backend: "dynamo" or "memory".
	Driver           string
	TableNamePolls   string
	TableNameOptions string
	TableNameVotes   string
}

type ServerConfig struct {
	Port int
}

func ReadConfig() *Config {
	return &Config{
		StorageConfig: StorageConfig{
			Driver:           getStringOrDefault("storage.Driver", "dynamo"),
			TableNamePolls:   viper.GetString("storage.TableNamePolls"),
			TableNameOptions: viper.GetString("storage.TableNameOptions"),
			TableNameVotes:   viper.GetString("storage.TableNameVotes"),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
	}
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		return viper.GetString(name)
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		return viper.GetInt(name)
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
