// Package grpc runs the internal gRPC endpoint. It currently serves the
// standard health service used by cluster probes.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fashionhub/storefront/pkg/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps a grpc.Server with the health service registered.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	port   string
}

// NewServer builds a server listening on the given port.
func NewServer(port string) *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recoveryInterceptor(),
			loggingInterceptor(),
		),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(srv, h)

	return &Server{srv: srv, health: h, port: port}
}

// SetServing flips the health status of the named service. An empty name
// sets the overall server status.
func (s *Server) SetServing(service string, ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Start serves until ctx is cancelled, then drains gracefully.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("grpc: listen on %s: %w", s.port, err)
	}

	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.srv.GracefulStop()
	}()

	logger.Info("grpc: listening", "port", s.port)
	if err := s.srv.Serve(lis); err != nil {
		return fmt.Errorf("grpc: serve: %w", err)
	}
	return nil
}

func recoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("grpc: handler panicked", "method", info.FullMethod, "panic", rec)
				err = fmt.Errorf("internal error")
			}
		}()
		return handler(ctx, req)
	}
}

func loggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc: handled",
			"method", info.FullMethod,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return resp, err
	}
}
