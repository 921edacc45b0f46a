package db

import (
	"github.com/pkg/errors"

	"github.com/cardwise/cardwise/internal/profile"
	"github.com/cardwise/cardwise/store"
	"github.com/cardwise/cardwise/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile. The engine is
// single-device and ships with the embedded SQLite driver only.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' is supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
