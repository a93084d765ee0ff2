// Package server boots and runs the storefront API process.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fashionhub/storefront/app/jobs"
	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/app/services"
	"github.com/fashionhub/storefront/config"
	"github.com/fashionhub/storefront/internal/kernel"
	"github.com/fashionhub/storefront/pkg/cache"
	"github.com/fashionhub/storefront/pkg/database"
	"github.com/fashionhub/storefront/pkg/event"
	grpcserver "github.com/fashionhub/storefront/pkg/grpc"
	"github.com/fashionhub/storefront/pkg/logger"
	"github.com/fashionhub/storefront/pkg/queue"
	"github.com/fashionhub/storefront/pkg/sse"
	"github.com/fashionhub/storefront/pkg/storage"
	"github.com/fashionhub/storefront/pkg/ws"
)

// Run boots every subsystem and serves until SIGINT/SIGTERM. Listener
// errors are fatal: a server that cannot bind is better dead than
// silently half-alive.
func Run() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repositories.Connect(ctx); err != nil {
		return err
	}
	defer repositories.Disconnect(context.Background())

	// Fan application logs out to stdout and Mongo once the DB is up.
	mongoHandler := logger.NewMongoHandler(
		repositories.DB().Collection(config.MongoLogCollection()))
	logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mongoHandler))
	defer mongoHandler.Close()

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	}

	if err := storage.Connect(ctx); err != nil {
		return err
	}

	mgr, err := buildQueue()
	if err != nil {
		return err
	}
	mgr.StartWorkers(ctx, 2)

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Close()

	events := sse.NewBroker()
	registerOrderListeners(ctx, mgr, hub, events)

	svcs := kernel.BuildServices(repositories.DB())
	r := kernel.BuildRouter(svcs, hub, events)

	grpcSrv := grpcserver.NewServer(config.GRPCPort())
	grpcSrv.SetServing("", true)
	go func() {
		if err := grpcSrv.Start(ctx); err != nil {
			logger.Error("server: grpc server failed", "error", err)
		}
	}()

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "port", config.AppPort(), "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server: listener failed, shutting down", "error", err)
		stop()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	mgr.Wait()
	logger.Info("server: stopped cleanly")
	return nil
}

// buildQueue selects the queue driver and wires failed-job persistence.
func buildQueue() (*queue.Manager, error) {
	var driver queue.Driver
	switch config.Get("QUEUE_DRIVER", "memory") {
	case "redis":
		if cache.RDB == nil {
			return nil, fmt.Errorf("server: redis queue driver requires a reachable redis")
		}
		driver = queue.NewRedisDriver(cache.RDB)
	default:
		driver = queue.NewMemoryDriver(256)
	}

	mgr := queue.NewManager(driver)
	queue.Register(mgr, jobs.OrderConfirmation{})

	if err := database.Connect(); err != nil {
		logger.Warn("server: ops database unavailable, failed jobs will not persist", "error", err)
	} else if err := queue.UseDB(database.DB); err != nil {
		return nil, fmt.Errorf("server: migrate failed_jobs: %w", err)
	}
	return mgr, nil
}

// registerOrderListeners connects the order.created event to the admin
// feeds and the confirmation-mail job.
func registerOrderListeners(ctx context.Context, mgr *queue.Manager, hub *ws.Hub, events *sse.Broker) {
	users := repositories.NewUserRepository(repositories.DB())

	event.Listen(services.EventOrderCreated, func(_ context.Context, payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}

		feed := map[string]interface{}{
			"event":       "order.created",
			"orderId":     order.ID.Hex(),
			"totalAmount": order.TotalAmount,
			"itemCount":   len(order.Items),
			"status":      order.Status,
			"createdAt":   order.CreatedAt,
		}
		hub.BroadcastJSON(feed)
		events.Publish("order.created", feed)

		user, err := users.Get(ctx, order.User)
		if err != nil {
			logger.Warn("server: cannot load user for confirmation mail",
				"order", order.ID.Hex(), "error", err)
			return
		}
		job := jobs.OrderConfirmation{
			OrderID:     order.ID.Hex(),
			Email:       user.Email,
			CustomerN:   user.Name,
			TotalAmount: order.TotalAmount,
			ItemCount:   len(order.Items),
		}
		if err := mgr.Dispatch(ctx, job); err != nil {
			logger.Error("server: cannot queue confirmation mail",
				"order", order.ID.Hex(), "error", err)
		}
	})
}

// Fatal logs err and exits non-zero. cmd wrappers use it so every exit
// path funnels through one place.
func Fatal(err error) {
	logger.Error("server: fatal", "error", err)
	os.Exit(1)
}
