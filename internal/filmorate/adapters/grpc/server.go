// Package grpc предоставляет gRPC сервер проверки состояния каталога фильмов.
package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"filmorate/internal/filmorate/config"
	"filmorate/pkg/logger"
)

// Константы для логирования.
const (
	LogServerStarting = "Starting gRPC server"
	LogServerStarted  = "gRPC server started"
	LogServerStopping = "Stopping gRPC server"
	LogServerStopped  = "gRPC server stopped"
	ErrServerStart    = "failed to start gRPC server"

	// ServiceName - имя сервиса в протоколе проверки состояния.
	ServiceName = "filmorate"
)

// Server представляет gRPC сервер со стандартным сервисом health.
type Server struct {
	cfg    *config.GRPCConfig
	server *grpc.Server
	health *health.Server

	mu       sync.Mutex
	listener net.Listener
}

// New создает новый экземпляр gRPC сервера.
func New(cfg *config.GRPCConfig) *Server {
	if cfg == nil {
		cfg = &config.GRPCConfig{Host: "0.0.0.0", Port: 50051}
	}

	srv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		cfg:    cfg,
		server: srv,
		health: healthSrv,
	}
}

// Start запускает gRPC сервер и помечает сервис как обслуживающий.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)
	address := s.cfg.GetAddress()

	log.Info(ctx, LogServerStarting, zap.String("address", address))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Error(ctx, ErrServerStart, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStart, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	reflection.Register(s.server)

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log.Error(ctx, ErrServerStart, zap.Error(err))
		}
	}()

	s.SetServing(true)
	log.Info(ctx, LogServerStarted, zap.String("address", listener.Addr().String()))
	return nil
}

// Addr возвращает фактический адрес после Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// SetServing переключает статус сервиса каталога.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
}

// Stop помечает все сервисы как необслуживающие и останавливает сервер.
func (s *Server) Stop(ctx context.Context) {
	log := logger.Log(ctx)

	log.Info(ctx, LogServerStopping)
	s.health.Shutdown()
	s.server.GracefulStop()
	log.Info(ctx, LogServerStopped)
}

// RegisterService регистрирует gRPC сервис в сервере.
func (s *Server) RegisterService(registerFn func(server *grpc.Server)) {
	registerFn(s.server)
}
