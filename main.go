// @title Votely API
// @version 1.0
// @description Backend API for running polls: lifecycle, vote casting and aggregated results

// @securityDefinitions.apikey UserIdentity
// @in header
// @name x-user-id
package main

import (
	_ "github.com/1abdulhaseeb/votely/docs"

	"github.com/1abdulhaseeb/votely/api"
	"github.com/1abdulhaseeb/votely/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	logging.BootstrapLogger()

	// Local .env is optional; the lambda environment injects everything
	if err := godotenv.Load(); err != nil {
		logging.Log.Debugf("no .env file loaded: %v", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}

	config := api.ReadConfig()

	service := api.NewServer(config)
	service.Start()
}
