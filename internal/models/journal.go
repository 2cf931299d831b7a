package models

import (
	"time"
)

// DefaultEmotion is the only emotion tag entries carry for now.
const DefaultEmotion = "Neutral"

// JournalEntry is a private journaling entry. Persisted newest-first under
// the journal_entries key.
type JournalEntry struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"` // creation time, kept on edit
	Emotion string    `json:"emotion"`
}

func (e JournalEntry) RecordID() int64 { return e.ID }
