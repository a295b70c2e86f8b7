package main

import (
	"os"
	"path/filepath"

	"github.com/yigit/collegeportal/internal/bootstrap"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/pkg/logger"
	"github.com/yigit/collegeportal/internal/server"
)

func main() {
	configPath := config.GetEnv("PORTAL_CONFIG", filepath.Join("configs", "config.yaml"))

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		lgr.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	lgr.Info().Msg("Application finished gracefully.")
}
