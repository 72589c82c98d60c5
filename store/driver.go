package store

import "context"

// Driver is the persistence backend for the preference store.
// Implementations persist the whole mapping on every save; there is no
// per-record write path.
type Driver interface {
	LoadPreferences(ctx context.Context) (map[string]Preference, error)
	SavePreferences(ctx context.Context, prefs map[string]Preference) error
	Close() error
}
