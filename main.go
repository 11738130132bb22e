// main.go
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SensorLedger/internal/config"
	"SensorLedger/internal/controller"
	"SensorLedger/internal/middleware"
	"SensorLedger/internal/repository"
	"SensorLedger/internal/routes"
	"SensorLedger/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	repo := repository.NewLedgerRepository(cfg.LedgerFile)

	var (
		mirrors []service.Mirror
		closers []io.Closer
	)
	if cfg.InfluxDBEnabled() {
		influx := repository.NewInfluxDBMirror(cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg, cfg.InfluxDBBucket)
		mirrors = append(mirrors, influx)
		closers = append(closers, influx)
		log.Printf("Mirroring readings to InfluxDB %s, bucket %s", cfg.InfluxDBURL, cfg.InfluxDBBucket)
	}
	if cfg.KafkaEnabled() {
		kafka := repository.NewKafkaMirror(cfg.KafkaBrokers, cfg.KafkaTopic)
		mirrors = append(mirrors, kafka)
		closers = append(closers, kafka)
		log.Printf("Mirroring readings to Kafka topic %s", cfg.KafkaTopic)
	}

	svc := service.NewLedgerService(repo, mirrors...).WithMirrorTimeout(cfg.MirrorTimeout)
	ctrl := controller.NewLedgerController(svc)
	router := routes.SetupRouter(ctrl)

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.AccessLog(os.Stdout),
		middleware.CORS(cfg.AllowedOrigins),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      config.ServerWriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server is running on %s, ledger file %s (%d entries)", cfg.Addr(), cfg.LedgerFile, svc.Count())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	log.Printf("received signal %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Printf("error closing mirror: %v", err)
		}
	}
	log.Println("stopped")
}
