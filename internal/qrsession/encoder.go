package qrsession

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Encoder produces a fresh session payload immediately on Run and again
// every RefreshInterval while its context is alive. Each emission replaces
// the displayed code; no history of prior payloads is retained.
type Encoder struct {
	class    ClassInfo
	emit     func(Payload)
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// EncoderOption customizes an Encoder.
type EncoderOption func(*Encoder)

// WithInterval overrides the refresh interval (tests).
func WithInterval(d time.Duration) EncoderOption {
	return func(e *Encoder) { e.interval = d }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) EncoderOption {
	return func(e *Encoder) { e.now = now }
}

// NewEncoder creates an encoder for one class occurrence. Every generated
// payload is handed to emit.
func NewEncoder(class ClassInfo, emit func(Payload), logger *zap.Logger, opts ...EncoderOption) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Encoder{
		class:    class,
		emit:     emit,
		interval: RefreshInterval,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate returns a single fresh payload without starting the refresh loop.
func (e *Encoder) Generate() Payload {
	return NewPayload(e.class, e.now())
}

// Run emits once immediately, then on every tick until ctx is cancelled.
// The ticker is stopped on return, so an unmounted owner leaks no timer.
func (e *Encoder) Run(ctx context.Context) {
	e.emit(e.Generate())

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("qr encoder stopped",
				zap.String("subject", e.class.Subject),
				zap.String("date", e.class.Date))
			return
		case <-ticker.C:
			e.emit(e.Generate())
		}
	}
}
