package services

import (
	"context"
	"testing"
	"time"
)

func TestPacer_FirstWaitIsImmediate(t *testing.T) {
	p := NewPacer(time.Hour)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait() took %v", elapsed)
	}
}

func TestPacer_PausesAfterDone(t *testing.T) {
	p := NewPacer(40 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		// A write as slow as the interval must not eat into the pause.
		time.Sleep(40 * time.Millisecond)
		p.Done()

		done := time.Now()
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		if gap := time.Since(done); gap < 40*time.Millisecond {
			t.Errorf("pause after write %d = %v, want at least 40ms", i+1, gap)
		}
	}
}

func TestPacer_Disabled(t *testing.T) {
	p := NewPacer(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		p.Done()
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("disabled pacer took %v", elapsed)
	}
}

func TestPacer_Cancelled(t *testing.T) {
	p := NewPacer(time.Hour)
	p.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := p.Wait(ctx); err == nil {
		t.Error("Wait() past the context deadline returned nil")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Wait() ignored the context, took %v", elapsed)
	}

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	if err := NewPacer(0).Wait(cancelled); err == nil {
		t.Error("Wait() on a cancelled context returned nil")
	}
}
