package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"analysis-service/internal/core/port"
)

type fakeRefresher struct {
	calls chan struct{}
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (int, error) {
	f.calls <- struct{}{}
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

type nopLogger struct{}

func (nopLogger) Info(msg string, fields port.Fields)             {}
func (nopLogger) Warn(msg string, fields port.Fields)             {}
func (nopLogger) Error(msg string, err error, fields port.Fields) {}
func (nopLogger) Debug(msg string, fields port.Fields)            {}
func (l nopLogger) WithFields(fields port.Fields) port.LoggerPort { return l }

func TestSchedulerValidation(t *testing.T) {
	if _, err := NewMarketRefreshScheduler(nil, nopLogger{}, time.Hour); err == nil {
		t.Error("expected error for nil use case")
	}
	if _, err := NewMarketRefreshScheduler(&fakeRefresher{}, nopLogger{}, 0); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestSchedulerRunsImmediatelyAndOnTick(t *testing.T) {
	refresher := &fakeRefresher{calls: make(chan struct{}, 10)}

	s, err := NewMarketRefreshScheduler(refresher, nopLogger{}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewMarketRefreshScheduler() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Первый запуск происходит сразу, второй по тику
	for i := 0; i < 2; i++ {
		select {
		case <-refresher.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("refresh run %d did not happen in time", i+1)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() returned error on cancel: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}

func TestSchedulerContinuesAfterFailure(t *testing.T) {
	refresher := &fakeRefresher{calls: make(chan struct{}, 10), err: errors.New("refresh failed")}

	s, err := NewMarketRefreshScheduler(refresher, nopLogger{}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewMarketRefreshScheduler() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Start(ctx) }()

	// Ошибки не останавливают цикл: ждем минимум два запуска
	for i := 0; i < 2; i++ {
		select {
		case <-refresher.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("refresh run %d did not happen in time", i+1)
		}
	}
}
