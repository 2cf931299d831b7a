package services

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/AnshRaj112/mindmate-backend/internal/collection"
	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/internal/storage"
)

// JournalKey is the storage key of the journal collection.
const JournalKey = "journal_entries"

// ErrEmptyEntry is returned when a draft has neither title nor content.
var ErrEmptyEntry = errors.New("title or content is required")

// JournalDraft is what the editor submits. A zero ID creates a new entry.
type JournalDraft struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Confirmer is asked before an entry is deleted; only true lets it go.
type Confirmer func(models.JournalEntry) bool

// JournalService keeps journal entries newest-first.
type JournalService struct {
	store *collection.Store[models.JournalEntry]
	ids   *IDGenerator
	clock clockOptions
}

func NewJournalService(ctx context.Context, adapter *storage.Adapter, opts ...Option) *JournalService {
	clock := buildClock(opts)
	s := &JournalService{
		store: collection.Load[models.JournalEntry](ctx, adapter, JournalKey),
		ids:   NewIDGenerator(clock.now),
		clock: clock,
	}
	for _, e := range s.store.All() {
		s.ids.Observe(e.ID)
	}
	return s
}

// Save creates or updates an entry from a draft. An untitled draft is named
// after the current local date. Updating an id that is not stored is a
// silent no-op; the built entry is still returned.
func (s *JournalService) Save(ctx context.Context, d JournalDraft) (models.JournalEntry, error) {
	if strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == "" {
		return models.JournalEntry{}, ErrEmptyEntry
	}

	now := s.clock.now()
	title := d.Title
	if title == "" {
		title = now.In(s.clock.loc).Format(localDateLayout)
	}

	entry := models.JournalEntry{
		ID:      d.ID,
		Title:   title,
		Content: d.Content,
		Date:    stamp(now),
		Emotion: models.DefaultEmotion,
	}

	if d.ID == 0 {
		entry.ID = s.ids.Next()
		s.store.Prepend(ctx, entry)
		return entry, nil
	}

	if existing, ok := s.store.Find(d.ID); ok {
		entry.Date = existing.Date
	}
	s.store.UpdateByID(ctx, d.ID, entry)
	return entry, nil
}

// Delete removes the entry only after confirm approves it. It reports
// whether anything was removed.
func (s *JournalService) Delete(ctx context.Context, id int64, confirm Confirmer) bool {
	entry, ok := s.store.Find(id)
	if !ok {
		return false
	}
	if confirm == nil || !confirm(entry) {
		return false
	}
	return s.store.RemoveByID(ctx, id)
}

// Search yields entries whose title or content contains query, ignoring
// case, in stored order. Each range over the result re-reads the store.
func (s *JournalService) Search(query string) iter.Seq[models.JournalEntry] {
	needle := strings.ToLower(query)
	return func(yield func(models.JournalEntry) bool) {
		for _, e := range s.store.All() {
			if needle != "" &&
				!strings.Contains(strings.ToLower(e.Title), needle) &&
				!strings.Contains(strings.ToLower(e.Content), needle) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func (s *JournalService) Get(id int64) (models.JournalEntry, bool) {
	return s.store.Find(id)
}

func (s *JournalService) All() []models.JournalEntry {
	return s.store.All()
}
