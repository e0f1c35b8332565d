package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/evrenos/tour-booking/internal/config"
	"github.com/evrenos/tour-booking/internal/database"
	"github.com/evrenos/tour-booking/internal/handler"
	"github.com/evrenos/tour-booking/internal/queue"
	"github.com/evrenos/tour-booking/internal/repository"
	"github.com/evrenos/tour-booking/internal/router"
	"github.com/evrenos/tour-booking/internal/service"
	"github.com/evrenos/tour-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "tour-booking").Logger()
	if cfg.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; response cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tourRepo := repository.NewTourRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	guestRepo := repository.NewGuestRepo(db)
	agencyRepo := repository.NewAgencyRepo(db)

	var payments service.PaymentGateway = service.NopGateway{}
	if gw, err := service.NewStripeGateway(cfg.StripeKey); err == nil {
		payments = gw
	} else {
		log.Warn().Msg("payment gateway disabled: no secret key")
	}

	var notifier service.Notifier = service.NopNotifier{}
	if n, err := service.NewWhatsAppNotifier(cfg.WhatsAppKey, cfg.WhatsAppURL); err == nil {
		notifier = n
	} else {
		log.Warn().Msg("booking notifications disabled: no provider key")
	}

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL, log)
		go func() {
			if err := queue.StartConsumer(cfg.AMQPURL, log); err != nil {
				log.Error().Err(err).Msg("event consumer stopped")
			}
		}()
	} else {
		log.Warn().Msg("booking events disabled: no broker url")
	}

	var mailer service.Mailer = service.LogMailer{Log: log}
	if m, err := service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom); err == nil {
		mailer = m
	} else {
		log.Warn().Msg("smtp disabled: reset mail will be logged only")
	}

	manager := service.NewBookingManager(bookingRepo, guestRepo, payments, notifier, publisher, log)

	sweeper := worker.NewSweeper(userRepo, bookingRepo, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("sweeper start failed")
	}
	defer sweeper.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	router.Register(e, cfg, rdb, userRepo, router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, userRepo, mailer),
		Tour:        handler.NewTourHandler(tourRepo),
		Reservation: handler.NewReservationHandler(reservationRepo, tourRepo),
		Booking:     handler.NewBookingHandler(manager),
		Guest:       handler.NewGuestHandler(guestRepo, bookingRepo, cfg.EncryptionKey),
		Agency:      handler.NewAgencyHandler(agencyRepo),
		User:        handler.NewUserHandler(userRepo),
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
