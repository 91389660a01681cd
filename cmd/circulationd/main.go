// cmd/circulationd/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"libris/internal/borrowers"
	"libris/internal/catalog"
	"libris/internal/circulation"
	"libris/internal/fines"
	"libris/internal/notifications"
	"libris/internal/policy"
	"libris/internal/reports"
	"libris/internal/storage/memory"
	"libris/internal/storage/postgres"
	"libris/pkg/clock"
)

// backend is the full set of persistence contracts the service needs. Both
// the postgres and the in-memory store satisfy it.
type backend interface {
	catalog.Store
	borrowers.Store
	circulation.BorrowerDirectory
	circulation.RecordStore
	fines.Store
	notifications.Store
}

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx := context.Background()
	shutdownTracing := setupTracing(ctx, logger)
	defer shutdownTracing()

	var store backend
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pg, err := postgres.Open(dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		store = pg
		logger.Info("using postgres storage")
	} else {
		store = memory.NewStore()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	clk := clock.System()
	resolver := policy.NewResolver()

	ledger := fines.NewLedger(store, clk)
	catalogSvc := catalog.NewService(store, clk)
	borrowerSvc := borrowers.NewService(store, clk)
	circulationSvc := circulation.NewService(store, store, store, ledger, resolver, clk, logger)
	notificationSvc := notifications.NewService(store, store, resolver, clk)
	reportSvc := reports.NewService(store, store, resolver, clk)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	catalog.NewHandler(catalogSvc, logger).Routes(router)
	borrowers.NewHandler(borrowerSvc, logger).Routes(router)
	circulation.NewHandler(circulationSvc, logger).Routes(router)
	fines.NewHandler(ledger, logger).Routes(router)
	notifications.NewHandler(notificationSvc, logger).Routes(router)
	reports.NewHandler(reportSvc, logger).Routes(router)
	policy.NewHandler(resolver, logger).Routes(router)

	port := getEnv("PORT", "8082")
	logger.WithField("port", port).Info("starting circulation service")
	log.Fatal(http.ListenAndServe(":"+port, router))
}

// setupTracing installs an OTLP trace provider when an endpoint is
// configured; otherwise tracing stays on the default no-op provider.
func setupTracing(ctx context.Context, logger *logrus.Logger) func() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func() {}
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		logger.WithError(err).Warn("failed to create OTLP exporter, tracing disabled")
		return func() {}
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("circulationd"),
		)),
	)
	otel.SetTracerProvider(provider)

	return func() {
		if err := provider.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("failed to shut down trace provider")
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
