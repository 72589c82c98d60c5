// Package file implements the preference driver backed by a single flat
// JSON file, rewritten in full on every save.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/useglowbot/glowbot/internal/profile"
	"github.com/useglowbot/glowbot/store"
)

// Driver persists the preference mapping as one JSON object keyed by user id.
type Driver struct {
	path string
}

// NewDriver creates a file driver writing to the profile's DSN path.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("preference file path is empty")
	}
	return &Driver{path: profile.DSN}, nil
}

// LoadPreferences reads the whole mapping. A missing file yields an empty
// mapping, not an error.
func (d *Driver) LoadPreferences(ctx context.Context) (map[string]store.Preference, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]store.Preference{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", d.path)
	}

	prefs := map[string]store.Preference{}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, errors.Wrapf(err, "decode %s", d.path)
	}
	return prefs, nil
}

// SavePreferences rewrites the whole mapping atomically: the new content is
// written to a temp file in the same directory and renamed over the old one,
// so a crash mid-write never leaves a partial file behind.
func (d *Driver) SavePreferences(ctx context.Context, prefs map[string]store.Preference) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode preferences")
	}

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".*")
	if err != nil {
		return errors.Wrapf(err, "create temp file in %s", dir)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "write %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "close %s", tmpPath)
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "rename %s to %s", tmpPath, d.path)
	}
	return nil
}

// Close implements store.Driver. The file driver holds no open handles.
func (d *Driver) Close() error {
	return nil
}
