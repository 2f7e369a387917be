package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cankurt/chatcore/internal/pkg/logger"
	"github.com/cankurt/chatcore/internal/server"
)

func main() {
	// Local development convenience; a missing .env file is not an error
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
