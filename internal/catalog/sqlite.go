package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    source_root TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL
)`

const createSignaturesTable = `
CREATE TABLE IF NOT EXISTS signatures (
    run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    ident    TEXT NOT NULL,
    api_kind TEXT NOT NULL,
    ret_ty   TEXT,
    PRIMARY KEY (run_id, position)
)`

const createParametersTable = `
CREATE TABLE IF NOT EXISTS parameters (
    run_id             TEXT NOT NULL,
    signature_position INTEGER NOT NULL,
    position           INTEGER NOT NULL,
    name               TEXT NOT NULL,
    ty                 TEXT NOT NULL,
    PRIMARY KEY (run_id, signature_position, position),
    FOREIGN KEY (run_id, signature_position)
        REFERENCES signatures(run_id, position) ON DELETE CASCADE
)`

// SQLiteTarget persists the catalog to a SQLite database: one row in runs
// per emission, one row per signature, one row per parameter. Each emission
// is a new uuid-stamped run, so repeated runs over an evolving tree keep
// their history queryable.
type SQLiteTarget struct {
	// Path is the database file path.
	Path string
	// SourceRoot is recorded on the run row for provenance.
	SourceRoot string

	// RunID is set after a successful Generate.
	RunID string
}

// NewSQLiteTarget creates a SQLite generation target writing to the database
// at path.
func NewSQLiteTarget(path, sourceRoot string) *SQLiteTarget {
	return &SQLiteTarget{Path: path, SourceRoot: sourceRoot}
}

func (t *SQLiteTarget) Name() string {
	return "sqlite"
}

// Generate writes the record stream into the database inside one
// transaction: either the whole run lands or none of it does.
func (t *SQLiteTarget) Generate(records []Record) error {
	db, err := sql.Open("sqlite3", t.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := createSchema(db); err != nil {
		return err
	}

	runID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec(
		"INSERT INTO runs (id, source_root, created_at) VALUES (?, ?, ?)",
		runID, t.SourceRoot, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	sigStmt, err := tx.Prepare(
		"INSERT INTO signatures (run_id, position, ident, api_kind, ret_ty) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare signature insert: %w", err)
	}
	defer sigStmt.Close()

	paramStmt, err := tx.Prepare(
		"INSERT INTO parameters (run_id, signature_position, position, name, ty) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare parameter insert: %w", err)
	}
	defer paramStmt.Close()

	for i, rec := range records {
		var retTy sql.NullString
		if rec.RetTy != "" {
			retTy = sql.NullString{String: rec.RetTy, Valid: true}
		}
		if _, err := sigStmt.Exec(runID, i, rec.ID, rec.APIKind, retTy); err != nil {
			return fmt.Errorf("failed to insert signature %q: %w", rec.ID, err)
		}
		for j := range rec.ArgTys {
			if _, err := paramStmt.Exec(runID, i, j, rec.ArgIDs[j], rec.ArgTys[j]); err != nil {
				return fmt.Errorf("failed to insert parameter %s of %q: %w", rec.ArgIDs[j], rec.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog run: %w", err)
	}

	t.RunID = runID
	return nil
}

// createSchema creates all tables in dependency order.
func createSchema(db *sql.DB) error {
	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"signatures", createSignaturesTable},
		{"parameters", createParametersTable},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}
	return nil
}
