// Package store keeps every user's saved preference in memory and flushes
// the whole mapping through a pluggable driver after each mutation.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

// ErrPersistence indicates the preference mapping could not be written to
// durable storage. The in-memory update is kept, so a caller seeing this
// error holds possibly-unpersisted state and may retry.
var ErrPersistence = errors.New("preference persistence error")

// Store provides access to all saved user preferences. A single mutex
// serializes mutation and enumeration; the command handlers and the tip
// scheduler share it.
type Store struct {
	driver Driver
	logger *slog.Logger

	mu    sync.Mutex
	prefs map[string]Preference
}

// New creates a new instance of Store on top of the given driver.
func New(driver Driver) *Store {
	return &Store{
		driver: driver,
		logger: slog.Default(),
		prefs:  make(map[string]Preference),
	}
}

// Load populates the store from the driver. Absent backing storage is not
// an error; the store starts empty. Load is idempotent.
func (s *Store) Load(ctx context.Context) error {
	prefs, err := s.driver.LoadPreferences(ctx)
	if err != nil {
		return errors.Wrap(err, "load preferences")
	}
	if prefs == nil {
		prefs = make(map[string]Preference)
	}

	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()

	s.logger.Info("preference store loaded", "users", len(prefs))
	return nil
}

// GetPreference returns the saved preference for a user, if any.
func (s *Store) GetPreference(userID string) (Preference, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pref, ok := s.prefs[userID]
	return pref, ok
}

// SetPreference updates a user's record and flushes the whole mapping to
// durable storage before returning. On a write failure the in-memory update
// is kept and the returned error wraps ErrPersistence.
func (s *Store) SetPreference(ctx context.Context, userID string, pref Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[userID] = pref.Normalize()
	if err := s.driver.SavePreferences(ctx, s.snapshotLocked()); err != nil {
		return errors.Wrapf(ErrPersistence, "save preferences: %v", err)
	}
	return nil
}

// ListUserIDs returns a snapshot of every known user id.
func (s *Store) ListUserIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.prefs))
	for id := range s.prefs {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of users with a saved preference.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prefs)
}

// Close flushes the mapping one final time and closes the driver.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.driver.SavePreferences(ctx, snapshot); err != nil {
		s.logger.Error("final preference flush failed", "error", err)
	}
	return s.driver.Close()
}

func (s *Store) snapshotLocked() map[string]Preference {
	snapshot := make(map[string]Preference, len(s.prefs))
	for id, pref := range s.prefs {
		snapshot[id] = pref
	}
	return snapshot
}
