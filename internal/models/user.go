package models

import (
	"time"
)

// User is the identity shown to the rest of the app.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionKind tells a backend-issued session apart from a locally
// synthesized one.
type SessionKind string

const (
	SessionRemote SessionKind = "remote"
	SessionLocal  SessionKind = "local"
)

// Session is the result of login or register.
type Session struct {
	User  User        `json:"user"`
	Kind  SessionKind `json:"kind"`
	Token string      `json:"-"`
	// Cause is the backend error that forced a local session, nil otherwise.
	Cause error `json:"-"`
}

// IsLocal reports whether the identity backend was bypassed.
func (s Session) IsLocal() bool { return s.Kind == SessionLocal }
