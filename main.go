// @title Campus E-Voting Platform API
// @version 1.0
// @description Backend API for student elections: vote casting, admin election management and live results

// @securityDefinitions.apikey SessionToken
// @in header
// @name Authorization
package main

import (
	_ "github.com/CodeMark24/sample-e-voting-platform/docs"

	"github.com/CodeMark24/sample-e-voting-platform/api"
	"github.com/CodeMark24/sample-e-voting-platform/logging"
	"github.com/spf13/viper"
)

func main() {
	logging.BootstrapLogger()

	// Load env
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}

	// Read config
	config := api.ReadConfig()

	// Start the service
	service := api.NewServer(config)
	service.Start()
}
