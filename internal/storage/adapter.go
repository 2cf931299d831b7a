package storage

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single medium round trip.
const DefaultTimeout = 5 * time.Second

// Adapter layers JSON encoding and best-effort persistence over a Medium.
// Reads never fail and writes never report failure to the caller; both are
// logged instead.
type Adapter struct {
	medium   Medium
	logger   *zap.Logger
	timeout  time.Duration
	failures atomic.Int64
}

func NewAdapter(medium Medium, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{medium: medium, logger: logger, timeout: DefaultTimeout}
}

// Read decodes the value stored under key, or returns def when the key is
// absent, the medium errors, or the stored bytes are not valid JSON for T.
func Read[T any](ctx context.Context, a *Adapter, key string, def T) T {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, found, err := a.medium.Get(ctx, key)
	if err != nil {
		a.logger.Warn("storage read failed, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	if !found {
		return def
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		a.logger.Warn("stored value is not valid JSON, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return out
}

// Write encodes value and stores it under key before returning. A failure is
// logged and counted; callers keep their in-memory state as the truth.
func (a *Adapter) Write(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		a.failures.Add(1)
		a.logger.Error("storage encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	// A caller that goes away after mutating must not cancel the write.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	if err := a.medium.Set(ctx, key, data); err != nil {
		a.failures.Add(1)
		a.logger.Error("storage write failed", zap.String("key", key), zap.Error(err))
	}
}

// Failures reports how many writes were dropped since the adapter was built.
func (a *Adapter) Failures() int64 {
	return a.failures.Load()
}

// Close releases the underlying medium.
func (a *Adapter) Close() error {
	return a.medium.Close()
}
