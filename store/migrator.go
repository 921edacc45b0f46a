package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Migration System Overview:
//
// Schema history is an ordered, forward-only chain of SQL files under
// migration/{driver}/NN__description.sql. The applied schema version (the NN
// of the newest applied file) is stored in the system_setting table.
//
// Migration flow:
// 1. Fresh database: apply LATEST.sql (full current schema), record the
//    target version.
// 2. Existing database: apply every chain file with a version greater than
//    the recorded one, in order, inside a single transaction.
// 3. Demo mode additionally executes the seed files.
//
// Downgrades (recorded version newer than the chain) are rejected.

//go:embed migration
var migrationFS embed.FS

//go:embed seed
var seedFS embed.FS

const (
	// MigrateFileNameSplit is the split character between the version number
	// and the description in a migration file name, e.g. "01__insight.sql".
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName is the full schema used for fresh installations.
	LatestSchemaFileName = "LATEST.sql"

	schemaVersionSettingName = "schema_version"

	modeDemo = "demo"
)

// Migrate brings the database schema up to the latest version and, in demo
// mode, seeds it with demo data.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}

	targetVersion, err := s.targetSchemaVersion()
	if err != nil {
		return errors.Wrap(err, "failed to determine target schema version")
	}

	if !initialized {
		if err := s.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to initialize database")
		}
		if err := s.driver.UpsertSystemSetting(ctx, schemaVersionSettingName, strconv.Itoa(targetVersion)); err != nil {
			return errors.Wrap(err, "failed to record schema version")
		}
		slog.Info("database initialized", slog.Int("schemaVersion", targetVersion))
	} else {
		currentVersion, err := s.currentSchemaVersion(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get current schema version")
		}
		if currentVersion > targetVersion {
			slog.Error("cannot downgrade schema version",
				slog.Int("databaseVersion", currentVersion),
				slog.Int("targetVersion", targetVersion))
			return errors.Errorf("cannot downgrade schema version from %d to %d", currentVersion, targetVersion)
		}
		if currentVersion < targetVersion {
			if err := s.applyMigrations(ctx, currentVersion, targetVersion); err != nil {
				return errors.Wrap(err, "failed to apply migrations")
			}
		}
	}

	if s.profile.Mode == modeDemo {
		if err := s.seed(ctx); err != nil {
			return errors.Wrap(err, "failed to seed")
		}
	}
	return nil
}

// applyLatestSchema initializes a fresh database from LATEST.sql, which is
// faster and less fragile than replaying the whole chain.
func (s *Store) applyLatestSchema(ctx context.Context) error {
	filePath := s.migrationBasePath() + LatestSchemaFileName
	buf, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %s", filePath)
	}

	tx, err := s.driver.GetDB().Begin()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	slog.Info("initializing new database with latest schema", slog.String("file", filePath))
	if err := s.execute(ctx, tx, string(buf)); err != nil {
		return errors.Wrapf(err, "failed to execute schema file %s", filePath)
	}
	return tx.Commit()
}

// applyMigrations applies every chain file between the current and target
// versions, in order, in a single transaction.
func (s *Store) applyMigrations(ctx context.Context, currentVersion, targetVersion int) error {
	filePaths, err := fs.Glob(migrationFS, s.migrationBasePath()+"*.sql")
	if err != nil {
		return errors.Wrap(err, "failed to read migration files")
	}
	sort.Strings(filePaths)

	tx, err := s.driver.GetDB().Begin()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	slog.Info("start migration",
		slog.Int("currentSchemaVersion", currentVersion),
		slog.Int("targetSchemaVersion", targetVersion))

	migrationsApplied := 0
	for _, filePath := range filePaths {
		if filepath.Base(filePath) == LatestSchemaFileName {
			continue
		}
		fileVersion, err := versionOfMigrateScript(filePath)
		if err != nil {
			return errors.Wrapf(err, "invalid migration file %s", filePath)
		}
		if fileVersion <= currentVersion || fileVersion > targetVersion {
			continue
		}

		slog.Info("applying migration", slog.String("file", filePath), slog.Int("version", fileVersion))
		buf, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file %s", filePath)
		}
		if err := s.execute(ctx, tx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to execute migration %s", filePath)
		}
		migrationsApplied++
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migration transaction")
	}
	slog.Info("migration completed", slog.Int("migrationsApplied", migrationsApplied))

	if err := s.driver.UpsertSystemSetting(ctx, schemaVersionSettingName, strconv.Itoa(targetVersion)); err != nil {
		return errors.Wrap(err, "failed to update current schema version")
	}
	return nil
}

// seed executes the seed files in order. Only used in demo mode.
func (s *Store) seed(ctx context.Context) error {
	filenames, err := fs.Glob(seedFS, s.seedBasePath()+"*.sql")
	if err != nil {
		return errors.Wrap(err, "failed to read seed files")
	}
	sort.Strings(filenames)

	tx, err := s.driver.GetDB().Begin()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	for _, filename := range filenames {
		buf, err := seedFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "failed to read seed file, filename=%s", filename)
		}
		if err := s.execute(ctx, tx, string(buf)); err != nil {
			return errors.Wrapf(err, "seed error: %s", filename)
		}
	}
	return tx.Commit()
}

func (s *Store) currentSchemaVersion(ctx context.Context) (int, error) {
	value, err := s.driver.GetSystemSetting(ctx, schemaVersionSettingName)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid schema version %q", value)
	}
	return version, nil
}

// targetSchemaVersion is the highest version present in the migration chain.
func (s *Store) targetSchemaVersion() (int, error) {
	filePaths, err := fs.Glob(migrationFS, s.migrationBasePath()+"*.sql")
	if err != nil {
		return 0, errors.Wrap(err, "failed to read migration files")
	}

	target := 0
	for _, filePath := range filePaths {
		if filepath.Base(filePath) == LatestSchemaFileName {
			continue
		}
		version, err := versionOfMigrateScript(filePath)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid migration file %s", filePath)
		}
		if version > target {
			target = version
		}
	}
	if target == 0 {
		return 0, errors.New("no migration files found")
	}
	return target, nil
}

// versionOfMigrateScript extracts the numeric version from a migration file
// name such as "migration/sqlite/03__times_wrong.sql".
func versionOfMigrateScript(filePath string) (int, error) {
	filename := filepath.Base(filePath)
	parts := strings.Split(filename, MigrateFileNameSplit)
	if len(parts) < 2 {
		return 0, errors.Errorf("invalid migration filename format (missing %s): %s", MigrateFileNameSplit, filename)
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Errorf("migration filename must start with a number: %s", filename)
	}
	return version, nil
}

func (s *Store) migrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

func (s *Store) seedBasePath() string {
	return fmt.Sprintf("seed/%s/", s.profile.Driver)
}

// execute runs a multi-statement SQL script within the given transaction.
func (s *Store) execute(ctx context.Context, tx *sql.Tx, stmt string) error {
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}
	return nil
}
