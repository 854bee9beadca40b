// Package migrations exposes the embedded invocation journal schema, one
// tree per SQL dialect.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	apicall "github.com/goliatone/go-apicall"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	journalRoot = "data/sql/migrations"
)

// JournalSchema is the journal migration tree for one dialect.
type JournalSchema struct {
	Dialect string
	Path    string
	FS      fs.FS
}

// ApplyFunc receives the journal schema chosen by Register.
type ApplyFunc func(ctx context.Context, schema JournalSchema) error

// Dialect normalizes a driver or dialect name to DialectPostgres or
// DialectSQLite.
func Dialect(name string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "postgres", "postgresql", "pg", "pgx":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %q", name)
	}
}

// Journal returns the journal schema tree for dialect. Every up migration in
// the tree must have a matching down migration.
func Journal(dialect string) (JournalSchema, error) {
	normalized, err := Dialect(dialect)
	if err != nil {
		return JournalSchema{}, err
	}
	schemaPath := journalRoot
	if normalized == DialectSQLite {
		schemaPath += "/sqlite"
	}
	tree, err := fs.Sub(apicall.GetMigrationsFS(), schemaPath)
	if err != nil {
		return JournalSchema{}, fmt.Errorf("migrations: resolve %s journal schema: %w", normalized, err)
	}
	if err := checkPairs(tree, schemaPath); err != nil {
		return JournalSchema{}, err
	}
	return JournalSchema{Dialect: normalized, Path: schemaPath, FS: tree}, nil
}

// Register resolves the journal schema for dialect and hands it to apply.
func Register(ctx context.Context, dialect string, apply ApplyFunc) (JournalSchema, error) {
	if apply == nil {
		return JournalSchema{}, fmt.Errorf("migrations: apply function is required")
	}
	schema, err := Journal(dialect)
	if err != nil {
		return JournalSchema{}, err
	}
	if err := apply(ctx, schema); err != nil {
		return schema, fmt.Errorf("migrations: register %s journal (%s): %w", schema.Dialect, schema.Path, err)
	}
	return schema, nil
}

func checkPairs(tree fs.FS, schemaPath string) error {
	ups, err := fs.Glob(tree, "*.up.sql")
	if err != nil {
		return fmt.Errorf("migrations: glob %s: %w", schemaPath, err)
	}
	if len(ups) == 0 {
		return fmt.Errorf("migrations: %s has no *.up.sql files", schemaPath)
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(tree, down); err != nil {
			return fmt.Errorf("migrations: %s/%s has no down migration: %w", schemaPath, up, err)
		}
	}
	return nil
}
