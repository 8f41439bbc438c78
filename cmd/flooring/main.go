package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flooring-orders/config"
	"flooring-orders/internal/cli"
	"flooring-orders/internal/service"
	"flooring-orders/internal/store"
	"flooring-orders/internal/util"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	if err := util.InitLogger(cfg.App.Env, cfg.App.LogLevel); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer util.SyncLogger()

	logger := util.GetLogger()

	tp, err := util.InitTracer("flooring-orders", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Error("Failed to initialize tracer", zap.Error(err))
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	defer func() {
		if err := util.WriteMetricsTextfile(cfg.Observ.MetricsTextfile); err != nil {
			logger.Warn("Failed to write metrics", zap.Error(err))
		}
	}()

	orders, err := store.NewOrderStore(cfg.Storage.OrdersDir, cfg.Storage.ExportFile, cfg.Storage.OrderSequenceFile)
	if err != nil {
		fmt.Fprint(os.Stderr, cli.RenderError(err))
		logger.Error("Failed to open order store", zap.Error(err))
		return 1
	}
	catalog := store.NewCatalogStore(cfg.Storage.ProductsFile, cfg.Storage.TaxesFile)
	audit := store.NewAuditLog(cfg.Storage.AuditFile)
	orderService := service.NewOrderService(orders, catalog, audit)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, orderService); err != nil {
		fmt.Fprint(os.Stderr, cli.RenderError(err))
		if errors.Is(err, store.ErrPersistence) {
			return 1
		}
		return 2
	}
	return 0
}
