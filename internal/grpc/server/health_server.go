// Package server реализует gRPC-сервер проверки состояния (grpc.health.v1).
//
// Статус SERVING отдаётся, пока сценарий проверки состояния возвращает "OK".
package server

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName — имя сервиса, о котором можно спросить отдельно.
// Пустое имя означает состояние сервера целиком.
const ServiceName = "hexagonal-auth"

const statusOK = "OK"

// HealthChecker описывает сценарий проверки состояния.
type HealthChecker interface {
	Check() string
}

// HealthServer реализует grpc_health_v1.HealthServer поверх HealthChecker.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	checker HealthChecker
	log     *slog.Logger
}

// NewHealthServer создаёт новый экземпляр HealthServer.
func NewHealthServer(checker HealthChecker, log *slog.Logger) *HealthServer {
	return &HealthServer{
		checker: checker,
		log:     log,
	}
}

// Check возвращает текущее состояние сервиса.
func (s *HealthServer) Check(_ context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if req.GetService() != "" && req.GetService() != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
	st := s.status()
	s.log.Debug("health check", slog.String("service", req.GetService()), slog.String("status", st.String()))
	return &grpc_health_v1.HealthCheckResponse{Status: st}, nil
}

// Watch отправляет текущее состояние и держит поток открытым до отмены клиентом.
func (s *HealthServer) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	if req.GetService() != "" && req.GetService() != ServiceName {
		return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN})
	}
	if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: s.status()}); err != nil {
		return err
	}
	<-stream.Context().Done()
	return nil
}

func (s *HealthServer) status() grpc_health_v1.HealthCheckResponse_ServingStatus {
	if s.checker.Check() == statusOK {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_NOT_SERVING
}

// Server — gRPC-сервер с зарегистрированным HealthServer.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	log        *slog.Logger
}

// New открывает listener на addr и регистрирует HealthServer.
func New(addr string, checker HealthChecker, log *slog.Logger) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewWithListener(lis, checker, log), nil
}

// NewWithListener регистрирует HealthServer на готовом listener.
func NewWithListener(lis net.Listener, checker HealthChecker, log *slog.Logger) *Server {
	grpcServer := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, NewHealthServer(checker, log))
	return &Server{
		grpcServer: grpcServer,
		listener:   lis,
		log:        log,
	}
}

// Addr возвращает адрес, на котором слушает сервер.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Run обслуживает запросы до отмены ctx, затем плавно останавливает сервер.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("gRPC health server listening on", slog.String("address", s.Addr()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
