package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const keyPrefix = "docxredline:metrics:"

// Counter names, exposed so handlers and tests share one vocabulary.
const (
	CounterReadsTotal    = "reads_total"
	CounterAppliesTotal  = "applies_total"
	CounterDryRunsTotal  = "dry_runs_total"
	CounterErrorsTotal   = "errors_total"
)

// Sink records request-outcome counters. The zero value (via NewNoop) is
// always safe to call — every method is a no-op when no Redis address was
// configured, so handlers never need to branch on whether metrics are on.
type Sink struct {
	client *client
	log    *zap.Logger
}

// NewNoop returns a Sink that discards every increment.
func NewNoop() *Sink {
	return &Sink{}
}

// New returns a Sink backed by a Redis instance at addr. Connection issues
// are logged, never returned: a metrics outage must not affect request
// handling.
func New(addr string, log *zap.Logger) *Sink {
	if addr == "" {
		return NewNoop()
	}
	return &Sink{client: newClient(addr, log), log: log.Named("metrics")}
}

// Incr increments the named counter by one. Errors are logged and
// swallowed.
func (s *Sink) Incr(ctx context.Context, counter string) {
	if s == nil || s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := s.client.Incr(ctx, keyPrefix+counter).Err(); err != nil {
		s.log.Warn("metrics increment failed", zap.String("counter", counter), zap.Error(err))
	}
}

// Close releases the underlying Redis connection, if any.
func (s *Sink) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
