package services

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/mindmate-backend/internal/storage"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fakeClock) Set(t time.Time)         { c.t = t }

// switchableMedium rejects writes while fail is set.
type switchableMedium struct {
	*storage.Memory
	fail bool
}

func (m *switchableMedium) Set(ctx context.Context, key string, value []byte) error {
	if m.fail {
		return errors.New("quota exceeded")
	}
	return m.Memory.Set(ctx, key, value)
}

var testDay = time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC)
