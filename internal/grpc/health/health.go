// Package health поднимает gRPC health-пробу витрины для оркестратора.
//
// Статус сервиса обновляется по результатам пинга зависимостей.
package health

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
)

// ServiceName - имя сервиса в health-протоколе.
const ServiceName = "guitarshop.Storefront"

// Checker проверяет доступность зависимости.
type Checker interface {
	Ping(ctx context.Context) error
}

// Server - gRPC-сервер с одной лишь службой health.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	checkers   map[string]Checker
	interval   time.Duration
	logger     *slog.Logger
}

// New слушает addr и регистрирует службу health.
func New(addr string, checkers map[string]Checker, interval time.Duration, logger *slog.Logger) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return newServer(lis, checkers, interval, logger), nil
}

func newServer(lis net.Listener, checkers map[string]Checker, interval time.Duration, logger *slog.Logger) *Server {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	return &Server{
		grpcServer: grpcServer,
		health:     hs,
		listener:   lis,
		checkers:   checkers,
		interval:   interval,
		logger:     logger,
	}
}

// Check пингует зависимости и выставляет статус сервиса.
func (s *Server) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, c := range s.checkers {
		if err := c.Ping(ctx); err != nil {
			s.logger.Warn("dependency is unhealthy", slog.String("dependency", name), sl.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Run обслуживает пробу до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("gRPC health server listening on", slog.String("address", s.listener.Addr().String()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()

	s.Check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}
