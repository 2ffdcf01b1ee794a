package ioexport

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

// snapshotName is the file name of the sqlite export.
const snapshotName = "dpulse.sqlite"

// writeSQLite writes every table into a single-file sqlite snapshot.
// Re-exporting into an existing snapshot replaces its tables.
func writeSQLite(
	ctx context.Context,
	dir string,
	tables []table,
) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", CreateFileError(dir, err)
	}
	path := filepath.Join(dir, snapshotName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", CreateFileError(path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", WriteError(path, err)
	}
	defer tx.Rollback()

	for _, tbl := range tables {
		if err = writeSQLiteTable(ctx, tx, tbl); err != nil {
			return "", WriteError(path, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return "", WriteError(path, err)
	}
	return path, nil
}

func writeSQLiteTable(ctx context.Context, tx *sql.Tx, tbl table) error {
	drop := fmt.Sprintf("DROP TABLE IF EXISTS %q", tbl.name)
	if _, err := tx.ExecContext(ctx, drop); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tbl.name, err)
	}

	cols := make([]string, len(tbl.headers))
	for i, h := range tbl.headers {
		cols[i] = fmt.Sprintf("%q %s", h, sqliteType(tbl, i))
	}
	create := fmt.Sprintf("CREATE TABLE %q (%s)",
		tbl.name, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tbl.name, err)
	}

	if len(tbl.rows) == 0 {
		return nil
	}

	marks := strings.TrimSuffix(
		strings.Repeat("?, ", len(tbl.headers)), ", ")
	insert := fmt.Sprintf("INSERT INTO %q VALUES (%s)", tbl.name, marks)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf(
			"failed to prepare insert for %s: %w", tbl.name, err)
	}
	defer stmt.Close()

	for _, row := range tbl.rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf(
				"failed to insert into %s: %w", tbl.name, err)
		}
	}
	return nil
}

// sqliteType picks a column affinity from the first row of data.
// Tables exported before any rows exist fall back to TEXT.
func sqliteType(tbl table, col int) string {
	if len(tbl.rows) == 0 {
		return "TEXT"
	}
	switch tbl.rows[0][col].(type) {
	case int, int64, bool:
		return "INTEGER"
	case float64:
		return "REAL"
	default:
		return "TEXT"
	}
}
