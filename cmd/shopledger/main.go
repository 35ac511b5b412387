package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shopledger/pkg/auth"
	"shopledger/pkg/checkout"
	"shopledger/pkg/config"
	"shopledger/pkg/console"
	"shopledger/pkg/logger"
	"shopledger/pkg/otel"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, "shopledger", nil).Error(ctx, "load config", "error", err)
		return 1
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(os.Stderr, level, cfg.ServiceName, otel.GetTraceID)
	defer log.Sync()
	if err != nil {
		log.Warn(ctx, "falling back to info level", "error", err)
	}

	tp, shutdown, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.ServiceName,
		Host:        cfg.OTELHost,
		Probability: cfg.SampleProbability,
	})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		return 1
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Error(context.Background(), "shutdown tracing", "error", err)
		}
	}()
	ctx = otel.InjectTracing(ctx, tp.Tracer(cfg.ServiceName))

	creds, err := auth.New(cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		log.Error(ctx, "admin credentials", "error", err)
		return 1
	}

	coord := checkout.New(
		checkout.WithRestockThreshold(cfg.RestockThreshold),
		checkout.WithLogger(log),
	)

	log.Info(ctx, "session started", "restock_threshold", cfg.RestockThreshold)
	done := make(chan error, 1)
	go func() { done <- console.New(os.Stdin, os.Stdout, coord, creds, log).Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			log.Error(ctx, "console", "error", err)
			return 1
		}
	case <-ctx.Done():
		log.Info(context.Background(), "interrupted")
	}

	r := coord.DailyReport(context.Background())
	log.Info(context.Background(), "session ended",
		"total_sales", r.TotalSales.StringFixed(2), "total_customers", r.TotalCustomers)
	return 0
}
