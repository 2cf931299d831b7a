package services

import (
	"sync"
	"time"
)

// localDateLayout mirrors the en-US short date used for untitled entries.
const localDateLayout = "1/2/2006"

// Option tunes time handling for the projections.
type Option func(*clockOptions)

type clockOptions struct {
	now func() time.Time
	loc *time.Location
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *clockOptions) { o.now = now }
}

// WithLocation sets the zone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(o *clockOptions) {
		if loc != nil {
			o.loc = loc
		}
	}
}

func buildClock(opts []Option) clockOptions {
	o := clockOptions{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o clockOptions) sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(o.loc).Date()
	by, bm, bd := b.In(o.loc).Date()
	return ay == by && am == bm && ad == bd
}

// stamp is the persisted form of a timestamp: UTC, millisecond precision.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// IDGenerator hands out creation-time millisecond ids that never repeat or
// go backwards, even when two records are created in the same millisecond.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Observe raises the floor so ids loaded from storage are never reissued.
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
