package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/newhook/sqwatch/internal/logging"
	"github.com/newhook/sqwatch/internal/signal"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one numbered schema change, e.g. "002_task_transitions.sql".
type Migration struct {
	Version string
	Name    string
	UpSQL   string
	DownSQL string
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return RunMigrationsForFS(ctx, db, migrationsFS)
}

// RunMigrationsForFS applies the pending migrations found in fsys, in version
// order. Signals are held for the duration of each migration.
func RunMigrationsForFS(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	versions, err := MigrationStatus(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	migrations, err := readMigrations(fsys)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m Migration) error {
	signal.BlockSignals()
	defer signal.UnblockSignals()

	logging.Info("applying migration", "version", m.Version, "name", m.Name)
	return inTx(ctx, db, m.UpSQL, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.Version)
		return err
	})
}

// RollbackMigration reverts the most recently applied embedded migration.
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	return RollbackMigrationForFS(ctx, db, migrationsFS)
}

// RollbackMigrationForFS reverts the most recently applied migration using
// the down section found in fsys.
func RollbackMigrationForFS(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	var version string
	err := db.QueryRowContext(ctx,
		"SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	migrations, err := readMigrations(fsys)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	idx := sort.Search(len(migrations), func(i int) bool { return migrations[i].Version >= version })
	if idx == len(migrations) || migrations[idx].Version != version {
		return fmt.Errorf("migration %s not found", version)
	}
	m := migrations[idx]
	if strings.TrimSpace(m.DownSQL) == "" {
		return fmt.Errorf("migration %s has no down script", version)
	}

	signal.BlockSignals()
	defer signal.UnblockSignals()

	logging.Info("rolling back migration", "version", m.Version, "name", m.Name)
	return inTx(ctx, db, m.DownSQL, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", version)
		return err
	})
}

// MigrationStatus returns the applied migration versions in order. A
// database that has never been migrated reports none.
func MigrationStatus(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// inTx runs every statement of script and then record inside one transaction.
func inTx(ctx context.Context, db *sql.DB, script string, record func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range splitSQLStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}
	if err := record(tx); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}

func readMigrations(fsys fs.FS) ([]Migration, error) {
	var migrations []Migration
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".sql") {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		base := strings.TrimSuffix(path.Base(p), ".sql")
		version, name, ok := strings.Cut(base, "_")
		if !ok {
			return fmt.Errorf("invalid migration filename: %s", path.Base(p))
		}
		up, down := splitSections(string(content))
		migrations = append(migrations, Migration{Version: version, Name: name, UpSQL: up, DownSQL: down})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// splitSections separates the "-- +up" and "-- +down" halves of a file.
func splitSections(content string) (up, down string) {
	var upLines, downLines []string
	var section *[]string
	for _, line := range strings.Split(content, "\n") {
		switch trimmed := strings.TrimSpace(line); {
		case strings.HasPrefix(trimmed, "-- +up"):
			section = &upLines
		case strings.HasPrefix(trimmed, "-- +down"):
			section = &downLines
		case section != nil:
			*section = append(*section, line)
		}
	}
	return strings.Join(upLines, "\n"), strings.Join(downLines, "\n")
}

// splitSQLStatements splits a script on semicolons that are outside quotes
// and comments. Empty statements are dropped.
func splitSQLStatements(script string) []string {
	var (
		statements   []string
		current      strings.Builder
		quote        rune
		lineComment  bool
		blockComment bool
	)
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case lineComment:
			if c == '\n' {
				lineComment = false
			}
		case blockComment:
			if c == '*' && next == '/' {
				current.WriteRune(c)
				c = next
				i++
				blockComment = false
			}
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '-' && next == '-':
			lineComment = true
		case c == '/' && next == '*':
			blockComment = true
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == ';':
			flush()
			continue
		}
		current.WriteRune(c)
	}
	flush()
	return statements
}
