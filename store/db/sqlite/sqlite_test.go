package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/useglowbot/glowbot/internal/profile"
	"github.com/useglowbot/glowbot/store"
)

func newTestDB(t *testing.T) store.Driver {
	t.Helper()
	driver, err := NewDB(&profile.Profile{DSN: filepath.Join(t.TempDir(), "glowbot_test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	return driver
}

func TestLoadPreferencesEmptyDatabase(t *testing.T) {
	driver := newTestDB(t)

	prefs, err := driver.LoadPreferences(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, prefs)
	assert.Empty(t, prefs)
}

func TestSaveAndLoadPreferences(t *testing.T) {
	driver := newTestDB(t)

	want := map[string]store.Preference{
		"42": {SkinType: "oily", FavoriteBrand: "colourpop", ProductCategory: "lipstick"},
		"43": {SkinType: "dry", FavoriteBrand: "maybelline", ProductCategory: "blush"},
	}
	require.NoError(t, driver.SavePreferences(context.Background(), want))

	got, err := driver.LoadPreferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSavePreferencesReplacesMapping(t *testing.T) {
	driver := newTestDB(t)

	require.NoError(t, driver.SavePreferences(context.Background(), map[string]store.Preference{
		"42": {SkinType: "oily"},
		"43": {SkinType: "dry"},
	}))
	require.NoError(t, driver.SavePreferences(context.Background(), map[string]store.Preference{
		"42": {SkinType: "combination"},
	}))

	got, err := driver.LoadPreferences(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "combination", got["42"].SkinType)
}
