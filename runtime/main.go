package main

import (
	"github.com/thu-furniture/thu_api/middleware"
	"github.com/thu-furniture/thu_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(

		&services.JWTService{},
		&middleware.AuthMiddleware{},
		&services.RedisService{},
		&services.PostgresService{},
		&services.CatalogService{},
		&services.RateLimitService{},
		&services.MailerService{},
		&services.ContactService{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
