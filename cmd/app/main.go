package main

import (
	"sizopi/config"
	"sizopi/di"
	"sizopi/helper"
	"sizopi/shared/logger"

	"github.com/rs/zerolog/log"
)

//	@title						SIZOPI Reservation API
//	@version					1.0
//	@description				Zoo facility reservations, attractions and rides.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer access token
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
