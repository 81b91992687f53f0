package main

import (
	"tablebook/internal/reservations/handler"
	"tablebook/internal/reservations/repository"
	"tablebook/internal/reservations/service"
	"tablebook/internal/reservations/validator"
	"tablebook/pkg/app"
	"tablebook/pkg/config"
	"tablebook/pkg/kafka"
	kafka_config "tablebook/pkg/kafka/config"
	kafka_middleware "tablebook/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	producer := initProducer(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	reservationService := initServices(cfg, producer)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

// initProducer builds the event producer. The service runs fine without a
// broker; event publishing is best-effort.
func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka brokers not configured, reservation events disabled")
		return nil
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, service.TopicReservationEvents, service.TopicReservationEventsDLQ)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, reservation events disabled", "error", err)
		return nil
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	restaurantRepo := repository.NewMongoRestaurantRepository(cfg)
	lockRepo := repository.NewSlotLockRepository(cfg)

	var events *service.EventPublisher
	if producer != nil {
		events = service.NewEventPublisher(producer, ServiceName, cfg.Log)
	}

	reservationService := service.NewReservationService(
		restaurantRepo,
		lockRepo,
		reservationValidator,
		events,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
