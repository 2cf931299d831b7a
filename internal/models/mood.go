package models

import (
	"time"
)

// MoodScore ranges from 1 (Very Sad) to 5 (Amazing).
type MoodScore int

const (
	MoodVerySad MoodScore = iota + 1
	MoodBad
	MoodOkay
	MoodGood
	MoodAmazing
)

var moodLabels = map[MoodScore]string{
	MoodVerySad: "Very Sad",
	MoodBad:     "Bad",
	MoodOkay:    "Okay",
	MoodGood:    "Good",
	MoodAmazing: "Amazing",
}

// Valid reports whether s is one of the five known scores.
func (s MoodScore) Valid() bool {
	_, ok := moodLabels[s]
	return ok
}

// Label returns the display label for s, or "" for an unknown score.
func (s MoodScore) Label() string {
	return moodLabels[s]
}

// MoodSample is one recorded mood. Samples are append-only and persisted in
// recording order under the mood_history key.
type MoodSample struct {
	ID    int64     `json:"id"`
	Date  time.Time `json:"date"`
	Score MoodScore `json:"score"`
	Mood  string    `json:"mood"` // label at save time
	Note  string    `json:"note"`
}

func (m MoodSample) RecordID() int64 { return m.ID }

// SeriesPoint is one chart point of the weekly mood trend.
type SeriesPoint struct {
	Label string    `json:"label"` // short weekday, e.g. "Mon"
	Date  time.Time `json:"date"`
	Score MoodScore `json:"score"`
	Mood  string    `json:"mood"`
}
