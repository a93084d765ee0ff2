package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/config"
	"github.com/fashionhub/storefront/internal/kernel"
	"github.com/fashionhub/storefront/pkg/cache"
	"github.com/fashionhub/storefront/pkg/logger"
	"github.com/fashionhub/storefront/pkg/schedule"
)

// RunWorkers runs a standalone queue worker process until interrupted.
// It needs Redis when QUEUE_DRIVER=redis; with the memory driver a
// standalone worker would consume nothing, so that is rejected.
func RunWorkers(workers int) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("workers: load config: %w", err)
	}
	if config.Get("QUEUE_DRIVER", "memory") != "redis" {
		return fmt.Errorf("workers: standalone workers need QUEUE_DRIVER=redis; the memory queue lives inside the server process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cache.Connect(); err != nil {
		return fmt.Errorf("workers: redis: %w", err)
	}

	mgr, err := buildQueue()
	if err != nil {
		return err
	}

	logger.Info("workers: starting", "count", workers)
	mgr.StartWorkers(ctx, workers)
	mgr.Wait()
	logger.Info("workers: stopped")
	return nil
}

// RunScheduler runs the standalone scheduler process: a periodic cache
// warm that keeps the first catalog page hot.
func RunScheduler() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("scheduler: load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repositories.Connect(ctx); err != nil {
		return err
	}
	defer repositories.Disconnect(context.Background())

	if err := cache.Connect(); err != nil {
		logger.Warn("scheduler: redis unavailable, cache warm will be a no-op", "error", err)
	}

	svcs := kernel.BuildServices(repositories.DB())

	s := schedule.New()
	s.Every(30).Minutes().Named("catalog-cache-warm").NoOverlap().Do(func(ctx context.Context) {
		if _, err := svcs.Products.List(ctx, repositories.ProductFilter{}, 1, 10); err != nil {
			logger.Warn("scheduler: cache warm failed", "error", err)
		}
	})

	logger.Info("scheduler: starting", "entries", len(s.List()))
	s.Start(ctx)
	s.Wait()
	logger.Info("scheduler: stopped")
	return nil
}
