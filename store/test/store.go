package teststore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise/internal/profile"
	"github.com/cardwise/cardwise/store"
	"github.com/cardwise/cardwise/store/db"
)

// NewTestingStore creates a fully migrated store backed by a throwaway
// SQLite database under the test's temporary directory.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	testProfile := getTestingProfile(t)
	driver, err := db.NewDBDriver(testProfile)
	require.NoError(t, err)

	testStore := store.New(driver, testProfile)
	require.NoError(t, testStore.Migrate(ctx))
	t.Cleanup(func() {
		_ = testStore.Close()
	})
	return testStore
}

func getTestingProfile(t *testing.T) *profile.Profile {
	dir := t.TempDir()
	testProfile := &profile.Profile{
		Mode:   "prod",
		Data:   dir,
		DSN:    filepath.Join(dir, "cardwise_test.db"),
		Driver: "sqlite",
	}
	require.NoError(t, testProfile.Validate())
	return testProfile
}
