package main

import (
	adminhandler "agendamento/internal/admin/handler"
	"agendamento/internal/admin/gate"
	adminservice "agendamento/internal/admin/service"
	"agendamento/internal/bookings/handler"
	"agendamento/internal/bookings/service"
	"agendamento/internal/bookings/validator"
	"agendamento/internal/events"
	"agendamento/internal/settings"
	"agendamento/internal/store"
	"agendamento/pkg/app"
	"agendamento/pkg/config"
	kafka_config "agendamento/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetLocalCache()

	cfg.Log.Info("Starting Bookings service")

	serverApp := newApplication(cfg, initPublisher(cfg))
	serverApp.Run()
}

// newApplication wires stores, services and handlers onto cfg's clients.
func newApplication(cfg *config.Config, publisher events.Publisher) *app.Application {
	remote := store.NewRemoteStore(cfg)
	cache, err := store.NewLocalCacheStore(cfg.Client.SQLite)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize local cache", "error", err)
	}
	bookings := store.NewFallbackStore(remote, cache, cfg.Log)

	accessGate, err := gate.NewAccessGate(cfg.AdminPassword, cfg.AdminTokenSecret, cfg.AdminTokenTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize admin access", "error", err)
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	settingsService := settings.NewService(
		settings.NewMongoRepository(cfg),
		bookingValidator,
		cfg.DefaultAgenda(),
		cfg.Log,
	)
	bookingService := service.NewBookingService(bookings, settingsService, bookingValidator, publisher, cfg.Log)
	adminService := adminservice.NewAdminService(accessGate, bookings, settingsService, publisher, cfg.Log)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName, "local_cache", cfg.LocalCachePath)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(remote, cache, cfg.Log),
		handler.NewBookingHandler(bookingService, cfg.Log),
		adminhandler.NewAdminHandler(adminService, accessGate.Verify, cfg.Log),
	)
	serverApp.OnShutdown(publisher)
	return serverApp
}

func initPublisher(cfg *config.Config) events.Publisher {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	publisher, err := events.NewPublisher(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking events", "error", err)
	}
	return publisher
}
