// Package postgres implements the preference driver on PostgreSQL, for
// deployments where the bot shares an existing database server.
package postgres

import (
	"context"
	"database/sql"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/useglowbot/glowbot/internal/profile"
	"github.com/useglowbot/glowbot/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a connection pool against the profile's DSN and verifies it.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open database: %s", profile.DSN)
	}

	// The bot writes rarely; keep the pool small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	driver := &DB{db: db, profile: profile}
	if err := driver.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return driver, nil
}

func (d *DB) migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_preference (
			user_id TEXT PRIMARY KEY,
			skin_type TEXT NOT NULL,
			favorite_brand TEXT NOT NULL,
			product_category TEXT NOT NULL
		)`)
	return err
}

func (d *DB) LoadPreferences(ctx context.Context) (map[string]store.Preference, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT user_id, skin_type, favorite_brand, product_category FROM user_preference")
	if err != nil {
		return nil, errors.Wrap(err, "query user_preference")
	}
	defer rows.Close()

	prefs := map[string]store.Preference{}
	for rows.Next() {
		var userID string
		var pref store.Preference
		if err := rows.Scan(&userID, &pref.SkinType, &pref.FavoriteBrand, &pref.ProductCategory); err != nil {
			return nil, errors.Wrap(err, "scan user_preference")
		}
		prefs[userID] = pref
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate user_preference")
	}
	return prefs, nil
}

// SavePreferences replaces the stored mapping with the given one in a
// single transaction.
func (d *DB) SavePreferences(ctx context.Context, prefs map[string]store.Preference) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_preference"); err != nil {
		return errors.Wrap(err, "clear user_preference")
	}
	for userID, pref := range prefs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_preference (user_id, skin_type, favorite_brand, product_category) VALUES ($1, $2, $3, $4)",
			userID, pref.SkinType, pref.FavoriteBrand, pref.ProductCategory,
		); err != nil {
			return errors.Wrapf(err, "insert preference for %s", userID)
		}
	}
	return tx.Commit()
}

func (d *DB) Close() error {
	return d.db.Close()
}
