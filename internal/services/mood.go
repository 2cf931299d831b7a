package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/AnshRaj112/mindmate-backend/internal/collection"
	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/internal/storage"
)

// MoodKey is the storage key of the mood history.
const MoodKey = "mood_history"

// WeeklySeriesLength is how many points the trend chart shows.
const WeeklySeriesLength = 7

var ErrScoreOutOfRange = errors.New("mood score must be between 1 and 5")

// MoodService is an append-only log of mood samples in recording order.
// There is no edit or delete path.
type MoodService struct {
	store *collection.Store[models.MoodSample]
	ids   *IDGenerator
	clock clockOptions

	// recordMu makes the today check and the append one step.
	recordMu sync.Mutex
}

func NewMoodService(ctx context.Context, adapter *storage.Adapter, opts ...Option) *MoodService {
	clock := buildClock(opts)
	s := &MoodService{
		store: collection.Load[models.MoodSample](ctx, adapter, MoodKey),
		ids:   NewIDGenerator(clock.now),
		clock: clock,
	}
	for _, m := range s.store.All() {
		s.ids.Observe(m.ID)
	}
	return s
}

// Record appends a sample for score, labelled at save time.
func (s *MoodService) Record(ctx context.Context, score models.MoodScore, note string) (models.MoodSample, error) {
	s.recordMu.Lock()
	defer s.recordMu.Unlock()
	return s.record(ctx, score, note)
}

// RecordIfAbsentToday is Record, but fails with ErrAlreadyRecorded when the
// current local day already has a sample. Concurrent callers record at most
// one sample per day.
func (s *MoodService) RecordIfAbsentToday(ctx context.Context, score models.MoodScore, note string) (models.MoodSample, error) {
	s.recordMu.Lock()
	defer s.recordMu.Unlock()
	if _, ok := s.Today(); ok {
		return models.MoodSample{}, ErrAlreadyRecorded
	}
	return s.record(ctx, score, note)
}

func (s *MoodService) record(ctx context.Context, score models.MoodScore, note string) (models.MoodSample, error) {
	if !score.Valid() {
		return models.MoodSample{}, fmt.Errorf("record mood %d: %w", score, ErrScoreOutOfRange)
	}
	sample := models.MoodSample{
		ID:    s.ids.Next(),
		Date:  stamp(s.clock.now()),
		Score: score,
		Mood:  score.Label(),
		Note:  note,
	}
	s.store.Append(ctx, sample)
	return sample, nil
}

// Today returns the first sample, in stored order, recorded on the current
// local calendar day.
func (s *MoodService) Today() (models.MoodSample, bool) {
	now := s.clock.now()
	for _, m := range s.store.All() {
		if s.clock.sameDay(m.Date, now) {
			return m, true
		}
	}
	return models.MoodSample{}, false
}

// WeeklySeries returns the latest WeeklySeriesLength samples by date,
// oldest first, labelled with their local weekday.
func (s *MoodService) WeeklySeries() []models.SeriesPoint {
	samples := s.store.All()
	slices.SortStableFunc(samples, func(a, b models.MoodSample) int {
		return a.Date.Compare(b.Date)
	})
	if len(samples) > WeeklySeriesLength {
		samples = samples[len(samples)-WeeklySeriesLength:]
	}

	points := make([]models.SeriesPoint, 0, len(samples))
	for _, m := range samples {
		points = append(points, models.SeriesPoint{
			Label: m.Date.In(s.clock.loc).Format("Mon"),
			Date:  m.Date,
			Score: m.Score,
			Mood:  m.Mood,
		})
	}
	return points
}

// History returns every sample in recording order.
func (s *MoodService) History() []models.MoodSample {
	return s.store.All()
}
