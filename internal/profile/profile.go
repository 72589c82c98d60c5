// Package profile holds the runtime configuration of the bot process.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the bot process.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for the health server
	Addr string
	// Port is the binding port for the health server
	Port int
	// Data is the data directory
	Data string
	// Driver is the preference backend (file, sqlite or postgres)
	Driver string
	// DSN points to where the preference mapping is stored: a file path for
	// the file and sqlite drivers, a connection string for postgres
	DSN string
	// Version is the current version of the bot
	Version string

	// CatalogBaseURL is the root of the makeup products API
	CatalogBaseURL string
	// TelegramToken authenticates the bot against the Telegram API
	TelegramToken string
	// TipTime is the daily wall-clock time ("HH:MM") of the beauty-tip broadcast
	TipTime string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from GLOWBOT_* environment variables. Values
// already set on the profile (e.g. from flags) win over the environment.
func (p *Profile) FromEnv() {
	if p.Mode == "" {
		p.Mode = getEnvOrDefault("GLOWBOT_MODE", "dev")
	}
	if p.Addr == "" {
		p.Addr = os.Getenv("GLOWBOT_ADDR")
	}
	if p.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("GLOWBOT_PORT")); err == nil {
			p.Port = port
		}
	}
	if p.Data == "" {
		p.Data = os.Getenv("GLOWBOT_DATA")
	}
	if p.Driver == "" {
		p.Driver = getEnvOrDefault("GLOWBOT_DRIVER", "file")
	}
	if p.DSN == "" {
		p.DSN = os.Getenv("GLOWBOT_DSN")
	}
	if p.CatalogBaseURL == "" {
		p.CatalogBaseURL = getEnvOrDefault("GLOWBOT_CATALOG_BASE_URL", "http://makeup-api.herokuapp.com/api/v1")
	}
	if p.TelegramToken == "" {
		p.TelegramToken = os.Getenv("GLOWBOT_TELEGRAM_TOKEN")
	}
	if p.TipTime == "" {
		p.TipTime = getEnvOrDefault("GLOWBOT_TIP_TIME", "10:00")
	}
}

// TipClock parses TipTime into its hour and minute components.
func (p *Profile) TipClock() (hour, minute int, err error) {
	parsed, err := time.Parse("15:04", p.TipTime)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid tip time %q", p.TipTime)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
		}
		if err := os.MkdirAll(dataDir, 0o770); err != nil {
			return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
		}
	}
	return dataDir, nil
}

// Validate normalizes the profile and fills driver-dependent defaults.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.DSN == "" {
		switch p.Driver {
		case "file":
			p.DSN = filepath.Join(dataDir, "user_preferences.json")
		case "sqlite":
			p.DSN = filepath.Join(dataDir, fmt.Sprintf("glowbot_%s.db", p.Mode))
		}
	}

	if _, _, err := p.TipClock(); err != nil {
		return err
	}
	return nil
}
