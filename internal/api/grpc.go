package api

import (
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported alongside the overall status
const ServiceName = "clever_tips.Tipster"

// GRPCServer exposes the standard gRPC health service
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	logger *logrus.Entry
}

// NewGRPCServer creates a gRPC server whose health starts as NOT_SERVING
func NewGRPCServer(logger *logrus.Logger) *GRPCServer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	g := &GRPCServer{
		server: srv,
		health: hs,
		logger: logger.WithField("component", "grpc"),
	}
	g.SetServing(false)
	return g
}

// SetServing switches both the overall and the named service status
func (g *GRPCServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(ServiceName, status)
}

// Serve accepts connections on lis until Stop is called
func (g *GRPCServer) Serve(lis net.Listener) error {
	g.logger.WithField("addr", lis.Addr().String()).Info("gRPC server starting")
	if err := g.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Start listens on port and serves in the background
func (g *GRPCServer) Start(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port %d: %w", port, err)
	}

	go func() {
		if err := g.Serve(lis); err != nil {
			g.logger.WithError(err).Error("gRPC server error")
		}
	}()
	return nil
}

// Stop marks the service NOT_SERVING and stops gracefully
func (g *GRPCServer) Stop() {
	g.health.Shutdown()
	g.server.GracefulStop()
	g.logger.Info("gRPC server stopped")
}
