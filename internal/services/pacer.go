package services

import (
	"context"
	"time"
)

// Pacer keeps a fixed pause between the end of one registry write and the
// start of the next. Time spent waiting for the registry does not count
// towards the pause.
type Pacer struct {
	interval time.Duration
	lastDone time.Time
}

// NewPacer creates a Pacer. A zero or negative interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until one interval has passed since the last write completed,
// or ctx is done. It does not block before the first write.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.interval <= 0 || p.lastDone.IsZero() {
		return nil
	}

	delay := time.Until(p.lastDone.Add(p.interval))
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done marks the end of a write; the next Wait pauses from here
func (p *Pacer) Done() {
	p.lastDone = time.Now()
}
