package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeMetricRegistry struct {
	reaped atomic.Int32
}

func (m *fakeMetricRegistry) ReapStale(time.Time) int {
	m.reaped.Add(1)
	return 0
}

func TestMetricReaper_Run(t *testing.T) {
	t.Parallel()
	reg := &fakeMetricRegistry{}
	w := NewMetricReaper(reg, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	if reg.reaped.Load() == 0 {
		t.Error("expected at least one reap sweep before cancel")
	}
}
