package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/openscholar/papergraph/internal/server"
	"github.com/openscholar/papergraph/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	srv := server.NewServer()
	r := srv.SetupRouter()

	port := srv.Config.Server.Port
	logger.Info().Str("port", port).Msg("starting papergraph server")
	if err := r.Run(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
