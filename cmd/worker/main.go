package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/zvrva/securespot/config"
	"github.com/zvrva/securespot/internal/cache"
	"github.com/zvrva/securespot/internal/email"
	"github.com/zvrva/securespot/internal/kafka"
	"github.com/zvrva/securespot/internal/payments"
	"github.com/zvrva/securespot/internal/repository"
	"github.com/zvrva/securespot/internal/scheduler"
	"github.com/zvrva/securespot/internal/service/reservation"
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

	sched := scheduler.NewPGScheduler(pool)
	processor := payments.NewStripeClient(cfg.Stripe)

	reservationService := reservation.NewService(
		repository.NewReservationRepository(pool),
		repository.NewParkingSpotRepository(pool),
		repository.NewUserRepository(pool),
		sched,
		redisCache,
		producer,
		processor,
		cfg.Kafka.NotificationsTopic,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.ReservationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepInterval := time.Duration(cfg.Worker.ReleaseSweepSeconds) * time.Second
	if sweepInterval <= 0 {
		sweepInterval = 15 * time.Second
	}
	batchSize := cfg.Worker.ReleaseBatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Printf("release worker started, sweeping every %s", sweepInterval)

	for {
		select {
		case <-ticker.C:
			tasks, err := sched.ClaimDue(ctx, time.Now().UTC(), batchSize)
			if err != nil {
				log.Printf("claim due release tasks: %v", err)
				continue
			}
			for _, task := range tasks {
				if err := reservationService.Settle(ctx, task.ParkingSpotID, task.ReservationID); err != nil {
					log.Printf("settle reservation %d: %v", task.ReservationID, err)
				}
			}
			if len(tasks) > 0 {
				log.Printf("processed %d release tasks", len(tasks))
			}
		case <-ctx.Done():
			log.Printf("shutting down")
			return
		}
	}
}
