package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var migrationFS embed.FS

const migrationsTable = "schema_migrations_poolsim"

// RunMigrations applies the embedded migrations using the postgres driver.
// It baselines the DB to the latest migration if the schema already exists
// (games table present) but migrate's metadata table is missing.
func RunMigrations(databaseURL string, logger zerolog.Logger) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "sql")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	var gamesExist bool
	row := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name='games')")
	if err := row.Scan(&gamesExist); err == nil && gamesExist {
		var migrateTableExist bool
		row2 := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", migrationsTable)
		if err := row2.Scan(&migrateTableExist); err == nil && !migrateTableExist {
			latest := LatestVersion(migrationFS, "sql")
			if latest > 0 {
				logger.Warn().Int64("version", latest).Msg("baselining existing schema")
				if ferr := m.Force(int(latest)); ferr != nil {
					logger.Error().Err(ferr).Int64("version", latest).Msg("force to version failed")
				}
			}
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	logger.Info().Msg("migrations applied")
	return nil
}

var versionPattern = regexp.MustCompile(`^0*([0-9]+)_`)

// LatestVersion returns the highest numeric version prefix (e.g. 000002_)
// among the migration files in dir.
func LatestVersion(fsys fs.FS, dir string) int64 {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0
	}

	var max int64
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		m := versionPattern.FindStringSubmatch(f.Name())
		if len(m) < 2 {
			continue
		}
		v, _ := strconv.ParseInt(m[1], 10, 64)
		if v > max {
			max = v
		}
	}

	return max
}
