package services

import (
	"context"
	"errors"
	"sync"

	"github.com/AnshRaj112/mindmate-backend/internal/models"
)

var (
	ErrNoMoodSelected  = errors.New("select a mood first")
	ErrAlreadyRecorded = errors.New("mood already recorded today")
)

// FormState is where the mood recording form is.
type FormState int

const (
	FormNoSelection FormState = iota
	FormMoodSelected
	FormSaved
	FormAlreadyRecorded // today's sample existed before this form saved one
)

func (s FormState) String() string {
	switch s {
	case FormMoodSelected:
		return "mood_selected"
	case FormSaved:
		return "saved"
	case FormAlreadyRecorded:
		return "already_recorded"
	default:
		return "no_selection"
	}
}

func (s FormState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MoodForm drives one day's recording: pick a mood, optionally write a note,
// submit. Once today has a sample the form is read-only until the day turns.
type MoodForm struct {
	mu       sync.Mutex
	svc      *MoodService
	selected models.MoodScore
	note     string
	saved    *models.MoodSample
}

func (s *MoodService) NewForm() *MoodForm {
	return &MoodForm{svc: s}
}

func (f *MoodForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state()
}

func (f *MoodForm) state() FormState {
	if f.saved != nil && f.svc.clock.sameDay(f.saved.Date, f.svc.clock.now()) {
		return FormSaved
	}
	if _, ok := f.svc.Today(); ok {
		return FormAlreadyRecorded
	}
	if f.selected.Valid() {
		return FormMoodSelected
	}
	return FormNoSelection
}

// Select picks (or re-picks) the mood to record.
func (f *MoodForm) Select(score models.MoodScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state() {
	case FormSaved, FormAlreadyRecorded:
		return ErrAlreadyRecorded
	}
	if !score.Valid() {
		return ErrScoreOutOfRange
	}
	f.selected = score
	return nil
}

// SetNote attaches an optional note; it needs a selected mood.
func (f *MoodForm) SetNote(note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state() != FormMoodSelected {
		return ErrNoMoodSelected
	}
	f.note = note
	return nil
}

// Submit records the selected mood and clears the pending selection and note.
func (f *MoodForm) Submit(ctx context.Context) (models.MoodSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state() {
	case FormSaved, FormAlreadyRecorded:
		return models.MoodSample{}, ErrAlreadyRecorded
	case FormNoSelection:
		return models.MoodSample{}, ErrNoMoodSelected
	}

	sample, err := f.svc.RecordIfAbsentToday(ctx, f.selected, f.note)
	if err != nil {
		return models.MoodSample{}, err
	}
	f.selected = 0
	f.note = ""
	f.saved = &sample
	return sample, nil
}

// Reset drops the pending selection and note.
func (f *MoodForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = 0
	f.note = ""
}
