package worker

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockSweeper struct {
	mu     sync.Mutex
	calls  int
	maxAge time.Duration
	err    error
	block  chan struct{}
}

func (m *mockSweeper) Sweep(olderThan time.Duration) (int, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.maxAge = olderThan
	return 1, m.err
}

func (m *mockSweeper) snapshot() (int, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.maxAge
}

func TestNewJanitor_Defaults(t *testing.T) {
	j := NewJanitor(Config{}, &mockSweeper{}, testLogger())
	if j.interval != 15*time.Minute {
		t.Errorf("interval = %v, want 15m", j.interval)
	}
	if j.maxAge != time.Hour {
		t.Errorf("maxAge = %v, want 1h", j.maxAge)
	}
}

func TestJanitor_SweepsPeriodically(t *testing.T) {
	sweeper := &mockSweeper{}
	j := NewJanitor(Config{Interval: 10 * time.Millisecond, MaxAge: 2 * time.Minute}, sweeper, testLogger())

	j.Start()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls, _ := sweeper.snapshot(); calls >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := j.Stop(time.Second); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	calls, maxAge := sweeper.snapshot()
	if calls < 2 {
		t.Errorf("Sweep called %d times, want at least 2", calls)
	}
	if maxAge != 2*time.Minute {
		t.Errorf("Sweep(olderThan) = %v, want 2m", maxAge)
	}
}

func TestJanitor_SweepErrorKeepsRunning(t *testing.T) {
	sweeper := &mockSweeper{err: errors.New("permission denied")}
	j := NewJanitor(Config{Interval: 10 * time.Millisecond}, sweeper, testLogger())

	j.Start()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls, _ := sweeper.snapshot(); calls >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	_ = j.Stop(time.Second)

	if calls, _ := sweeper.snapshot(); calls < 2 {
		t.Errorf("Sweep called %d times after errors, want at least 2", calls)
	}
}

func TestJanitor_StopTimeout(t *testing.T) {
	sweeper := &mockSweeper{block: make(chan struct{})}
	defer close(sweeper.block)

	j := NewJanitor(Config{Interval: time.Millisecond}, sweeper, testLogger())
	j.Start()
	time.Sleep(20 * time.Millisecond)

	if err := j.Stop(10 * time.Millisecond); !errors.Is(err, ErrShutdownTimeout) {
		t.Errorf("Stop() error = %v, want ErrShutdownTimeout", err)
	}
}
