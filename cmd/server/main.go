// Command server boots the users service: configuration, MySQL, Redis,
// RabbitMQ publisher, the token codec, and the HTTP surface on echo.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/users-service/internal/config"
	"github.com/iliyamo/users-service/internal/database"
	"github.com/iliyamo/users-service/internal/handler"
	"github.com/iliyamo/users-service/internal/middleware"
	"github.com/iliyamo/users-service/internal/repository"
	"github.com/iliyamo/users-service/internal/response"
	"github.com/iliyamo/users-service/internal/router"
	"github.com/iliyamo/users-service/internal/service"
	"github.com/iliyamo/users-service/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	rlCfg := config.LoadRateLimitConfig()

	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	repo := repository.NewUserRepo(db)
	events := service.NewAMQPPublisher()
	auth := service.NewAuthService(repo, codec, events, cfg.BcryptCost)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.ErrorHandler()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.RequestHeaders())

	router.Register(e,
		codec,
		handler.NewAuthHandler(auth, cfg.SecureCookies()),
		handler.NewUserHandler(auth),
		handler.NewHealthHandler(db, rdb),
		rlCfg,
		rdb,
	)

	log.Printf("users-service listening on :%s (env=%s)", cfg.Port, cfg.Env)
	log.Fatal(e.Start(":" + cfg.Port))
}
