package health

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmehra2102/bookit/pkg/httpx"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Handler serves GET /health, answering 503 while check fails.
func Handler(check Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		body := map[string]string{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)}
		if err := check(ctx); err != nil {
			body["status"] = "unavailable"
			httpx.WriteJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, body)
	}
}

// Run starts a gRPC server exposing grpc.health.v1 for service and keeps
// its status in step with check until ctx ends.
func Run(ctx context.Context, log *slog.Logger, addr, service string, check Check, every time.Duration) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	go func() {
		if err := gs.Serve(lis); err != nil {
			log.Error("grpc health server stopped", "err", err)
		}
	}()
	go Watch(ctx, hs, service, check, every)
	return gs, nil
}

// Watch updates hs from check on every tick and marks everything
// NOT_SERVING once ctx is done.
func Watch(ctx context.Context, hs *health.Server, service string, check Check, every time.Duration) {
	update := func() {
		cctx, cancel := context.WithTimeout(ctx, every)
		defer cancel()
		status := healthpb.HealthCheckResponse_SERVING
		if err := check(cctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus(service, status)
		hs.SetServingStatus("", status)
	}

	update()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
			update()
		}
	}
}
