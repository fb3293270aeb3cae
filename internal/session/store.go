// Package session tracks whether the operator has a recent successful login.
//
// The record lives under a single storage key and is only ever written whole
// or removed. Store is the single owner; Guard and the HTTP client hold a
// reference to it rather than touching storage directly.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Key is the storage key of the session record.
const Key = "isLoggedIn"

// Record marks a successful login. Timestamp is milliseconds since the epoch.
type Record struct {
	Value     bool  `json:"value"`
	Timestamp int64 `json:"timestamp"`
}

// Time returns the login time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Invalidator drops the current session.
type Invalidator interface {
	Clear() error
}

// Store reads and writes the session record.
type Store struct {
	storage Storage
	log     zerolog.Logger
}

// NewStore returns a store over storage.
func NewStore(storage Storage, log zerolog.Logger) *Store {
	return &Store{storage: storage, log: log}
}

// Write records a successful login at now, replacing any previous record.
func (s *Store) Write(now time.Time) error {
	data, err := json.Marshal(Record{Value: true, Timestamp: now.UnixMilli()})
	if err != nil {
		return fmt.Errorf("session.Write: %w", err)
	}
	if err := s.storage.Set(Key, string(data)); err != nil {
		return fmt.Errorf("session.Write: %w", err)
	}
	return nil
}

// Read returns the stored record. ok is false when the record is missing or
// does not parse as a record; callers treat both the same way.
func (s *Store) Read() (rec Record, ok bool) {
	raw, found, err := s.storage.Get(Key)
	if err != nil {
		s.log.Warn().Err(err).Msg("session storage unreadable")
		return Record{}, false
	}
	if !found {
		return Record{}, false
	}
	var parsed struct {
		Value     *bool  `json:"value"`
		Timestamp *int64 `json:"timestamp"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed.Value == nil || parsed.Timestamp == nil || !*parsed.Value {
		s.log.Debug().Str("raw", raw).Msg("malformed session record")
		return Record{}, false
	}
	return Record{Value: true, Timestamp: *parsed.Timestamp}, true
}

// Clear removes the record. Clearing an absent record is a no-op.
func (s *Store) Clear() error {
	if err := s.storage.Remove(Key); err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}
