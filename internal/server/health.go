package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"gorm.io/gorm"

	"socialapp/internal/common"
)

const pingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func healthHandler(db *gorm.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := pingDB(r.Context(), db); err != nil {
			common.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unreachable"})
			return
		}
		common.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
	})
}

// GRPCServer serves grpc.health.v1 and reflection for orchestration probes.
type GRPCServer struct {
	Server *grpc.Server
	health *health.Server
	db     *gorm.DB
	log    *zap.Logger
}

func NewGRPCServer(db *gorm.DB, log *zap.Logger) *GRPCServer {
	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	return &GRPCServer{Server: server, health: hs, db: db, log: log.Named("grpc")}
}

// Refresh publishes the serving status from a database ping.
func (g *GRPCServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := pingDB(ctx, g.db); err != nil {
		g.log.Warn("database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	g.health.SetServingStatus("", status)
	return status
}

// Shutdown marks the server as not serving and stops it gracefully.
func (g *GRPCServer) Shutdown() {
	g.health.Shutdown()
	g.Server.GracefulStop()
}
