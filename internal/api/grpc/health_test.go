package grpc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type flakyStore struct {
	down atomic.Bool
}

func (f *flakyStore) Ping(context.Context) error {
	if f.down.Load() {
		return errors.New("unreachable")
	}
	return nil
}

func status(t *testing.T, s *HealthServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.GetStatus()
}

func TestHealthFollowsStore(t *testing.T) {
	store := &flakyStore{}
	s := NewHealthServer(store, time.Minute)

	s.check(context.Background())
	if got := status(t, s, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("overall status = %v, want SERVING", got)
	}

	store.down.Store(true)
	s.check(context.Background())
	for _, svc := range []string{"", ServiceName} {
		if got := status(t, s, svc); got != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Errorf("status(%q) = %v, want NOT_SERVING", svc, got)
		}
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	s := NewHealthServer(&flakyStore{}, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Watch(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	if got := status(t, s, ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", got)
	}
}
