package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditlog "timetrack/internal/audit"
	auditrepo "timetrack/internal/audit/repository"
	"timetrack/internal/billing"
	billinghandler "timetrack/internal/billing/handler"
	"timetrack/internal/clock"
	"timetrack/internal/config"
	"timetrack/internal/db"
	"timetrack/internal/entry"
	entryhandler "timetrack/internal/entry/handler"
	entryrepo "timetrack/internal/entry/repository"
	entryservice "timetrack/internal/entry/service"
	healthhandler "timetrack/internal/health/handler"
	profilerepo "timetrack/internal/profile/repository"
	projectrepo "timetrack/internal/project/repository"
	"timetrack/internal/rate"
	ratehandler "timetrack/internal/rate/handler"
	raterepo "timetrack/internal/rate/repository"
	"timetrack/internal/server"
	"timetrack/internal/telemetry"
	"timetrack/internal/telemetry/otel"
	"timetrack/internal/telemetry/producer"
	timerhandler "timetrack/internal/timer/handler"
	timerrepo "timetrack/internal/timer/repository"
	timerservice "timetrack/internal/timer/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "timetrack-server", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetry.ShutdownDrainDuration)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown", "error", err)
		}
	}()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()

	var emitter telemetry.EventEmitter
	if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 {
		kafkaProducer, err := producer.NewKafkaProducer(brokers, cfg.EventsKafkaTopic)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		defer kafkaProducer.Close()
		emitter = kafkaProducer
	} else {
		emitter = otel.NewEventEmitter(providers.LoggerProvider)
	}

	clk := clock.Real{}
	loc := clock.BusinessLocation(cfg.BusinessUTCOffset)

	audits := auditlog.NewLogger(auditrepo.NewPostgresRepository(database))
	entries := entryrepo.NewPostgresRepository(database)
	profiles := profilerepo.NewPostgresRepository(database)
	projects := projectrepo.NewPostgresRepository(database)
	rates := raterepo.NewPostgresRepository(database)
	resolver := rate.NewResolver(rates)

	reconciler := entryservice.NewReconciler(
		entries,
		entry.NewOverlapValidator(entries),
		profiles,
		resolver,
		clk,
		audits,
		emitter,
	)
	timers := timerservice.New(
		timerrepo.NewPostgresRepository(database),
		reconciler,
		clk,
		audits,
		emitter,
		cfg.Staleness(),
	)
	calculator := billing.NewCalculator(profiles, resolver, projects)

	handler := server.NewHandler(server.Deps{
		Timer:   timerhandler.NewHandler(timers, loc),
		Entries: entryhandler.NewHandler(reconciler, loc),
		Billing: billinghandler.NewHandler(reconciler, calculator),
		Rates:   ratehandler.NewHandler(rates),
		Health:  healthhandler.NewHandler(database),
		Log:     slog.Default(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("http server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down http server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("http server stopped")
}
