package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bazaar-next/internal/config"
)

type fakeService struct {
	name      string
	startErr  error
	block     bool
	stopped   atomic.Bool
	stopOrder *stopRecorder
}

type stopRecorder struct {
	mu    sync.Mutex
	names []string
}

func (r *stopRecorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.stopped.Store(true)
	if s.stopOrder != nil {
		s.stopOrder.add(s.name)
	}
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	failing := &fakeService{name: "worker", startErr: errors.New("redis down")}
	healthy := &fakeService{name: "http", block: true}

	err := NewRunner(healthy, failing).Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "redis down" {
		t.Fatalf("expected start error propagated, got %v", err)
	}
	if !healthy.stopped.Load() || !failing.stopped.Load() {
		t.Fatalf("expected every service stopped")
	}
}

func TestRunnerCancelIsCleanExit(t *testing.T) {
	svc := &fakeService{name: "http", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should exit cleanly, got %v", err)
	}
	if !svc.stopped.Load() {
		t.Fatalf("expected service stopped")
	}
}

func TestRunRequiresDB(t *testing.T) {
	if err := Run(Options{Config: &config.Config{}}); err == nil {
		t.Fatalf("expected missing db rejected")
	}
	if _, _, err := BuildRunner(nil, nil, ModeAPI); err == nil {
		t.Fatalf("expected missing config rejected")
	}
}

func TestRunnerStopsInReverseStartOrder(t *testing.T) {
	recorder := &stopRecorder{}
	http := &fakeService{name: "http", block: true, stopOrder: recorder}
	worker := &fakeService{name: "worker", startErr: errors.New("queue closed"), stopOrder: recorder}

	if err := NewRunner(http, worker).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected worker exit error propagated")
	}
	if len(recorder.names) != 2 || recorder.names[0] != "worker" || recorder.names[1] != "http" {
		t.Fatalf("expected stop order [worker http], got %v", recorder.names)
	}
}

func TestRunnerRejectsNilService(t *testing.T) {
	svc := &fakeService{name: "http", block: true}
	if err := NewRunner(svc, nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected nil service rejected")
	}
	if svc.stopped.Load() {
		t.Fatalf("expected nothing started or stopped")
	}
}
