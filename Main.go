package main

import (
	"os"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/config"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/jobs"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/mailer"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/routers"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/token"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	db, err := config.SetupMySQLConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	rdb := config.SetupRedisConnection(cfg)
	defer rdb.Close()

	smtpMailer := mailer.NewSMTPMailer(cfg.Mail)
	userService := services.NewUserService(db, smtpMailer, log)
	tokenService := token.NewService(cfg.JWT.Secret, userService)
	authService := services.NewAuthService(db, userService, tokenService, log)

	deps := routers.Deps{
		Tokens:     tokenService,
		Auth:       authService,
		Users:      userService,
		Products:   services.NewProductService(db, rdb, log),
		Categories: services.NewCategoryService(db, log),
		Carts:      services.NewCartService(db, log),
		Orders:     services.NewOrderService(db, log),
		Statistics: services.NewStatisticsService(db, log),
	}

	scheduler := cron.New()
	reconciler := jobs.NewPaymentReconciler(db, jobs.NewSheetSource(cfg.Sheet), log)
	if err := reconciler.Schedule(scheduler); err != nil {
		log.Fatal().Err(err).Msg("cannot schedule payment reconciliation")
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := routers.SetupRouters(deps)
	if router == nil {
		log.Fatal().Msg("cannot set up routers")
	}
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
