package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zvrva/securespot/api"
	"github.com/zvrva/securespot/config"
	"github.com/zvrva/securespot/internal/bootstrap"
	"github.com/zvrva/securespot/internal/cache"
	"github.com/zvrva/securespot/internal/kafka"
	"github.com/zvrva/securespot/internal/payments"
	"github.com/zvrva/securespot/internal/repository"
	"github.com/zvrva/securespot/internal/scheduler"
	"github.com/zvrva/securespot/internal/service/auth"
	"github.com/zvrva/securespot/internal/service/reservation"
	"github.com/zvrva/securespot/internal/service/spots"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Reservation.SpotsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	spotRepo := repository.NewParkingSpotRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	sched := scheduler.NewPGScheduler(pool)
	processor := payments.NewStripeClient(cfg.Stripe)

	authService := auth.NewService(userRepo, redisCache, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	spotService := spots.NewSpotService(spotRepo, redisCache)
	reservationService := reservation.NewService(
		reservationRepo,
		spotRepo,
		userRepo,
		sched,
		redisCache,
		producer,
		processor,
		cfg.Kafka.NotificationsTopic,
	)

	handlers := bootstrap.Handlers{
		Auth:         api.NewAuthHandler(authService),
		Spots:        api.NewSpotHandler(spotService),
		Reservations: api.NewReservationHandler(reservationService),
		Payments:     api.NewPaymentHandler(reservationService),
		AuthService:  authService,
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
