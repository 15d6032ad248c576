package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vit0-9/site_analyzer/config"
	"github.com/vit0-9/site_analyzer/pkg/logger"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger.Init(logger.IsDev(cfg.Env))
	if envErr != nil {
		logger.Log.Debug().Msg("no .env file loaded, using environment variables from system if set")
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
