// Package db provides the preference driver factory.
package db

import (
	"github.com/pkg/errors"

	"github.com/useglowbot/glowbot/internal/profile"
	"github.com/useglowbot/glowbot/store"
	"github.com/useglowbot/glowbot/store/db/file"
	"github.com/useglowbot/glowbot/store/db/postgres"
	"github.com/useglowbot/glowbot/store/db/sqlite"
)

// NewDriver creates the preference driver named by the profile. All drivers
// persist the same single flat mapping; the file driver is the default and
// matches what a fresh deployment expects.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "file":
		driver, err = file.NewDriver(profile)
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown preference driver %q: only 'file', 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "create preference driver")
	}
	return driver, nil
}
