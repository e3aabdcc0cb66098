package grpc_handler

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"gorm.io/gorm"
)

const ServiceName = "howto.catalog"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewServer returns a gRPC server exposing the standard health service and
// reflection. The catalog service status follows the database.
func NewServer(db Pinger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	hs.SetServingStatus(ServiceName, status(context.Background(), db))
	return srv, hs
}

// Watch re-checks the database every interval until ctx is done, then
// marks every service as not serving.
func Watch(ctx context.Context, hs *health.Server, db Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
			hs.SetServingStatus(ServiceName, status(ctx, db))
		}
	}
}

func status(ctx context.Context, db Pinger) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if db == nil || db.PingContext(ctx) != nil {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// DBPinger adapts a gorm handle to Pinger.
type DBPinger struct {
	DB *gorm.DB
}

func (p DBPinger) PingContext(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
