// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"fmt"

	"github.com/distpulse/dpulse/pkg/db"
	"github.com/distpulse/dpulse/pkg/pipeline"
	"github.com/distpulse/dpulse/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the pipeline.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) pipeline.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using GORM
// AutoMigrate, adds the secondary indexes, and applies
// collation settings for stable place-name ordering.
func (m *manager) Create(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	db := stdlib.OpenDBFromPool(pool)

	// Connect with GORM
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	// Run GORM AutoMigrate to create schema
	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	// Secondary indexes, including the unique keys the
	// upserts rely on
	if err := m.createIndexes(ctx); err != nil {
		return err
	}

	// Set collation for string columns
	// (critical for correct sorting)
	if err := m.setCollation(ctx); err != nil {
		return err
	}

	return nil
}

// Drop removes all tables from the public schema. Used by
// 'dpulse create --force' before re-creation.
func (m *manager) Drop(ctx context.Context) error {
	return m.operator.DropAllTables(ctx)
}

// Verify checks that every expected table exists.
func (m *manager) Verify(ctx context.Context) error {
	for _, model := range schema.AllModels() {
		gen, ok := model.(schema.DDLGenerator)
		if !ok {
			continue
		}

		exists, err := m.operator.TableExists(ctx, gen.TableName())
		if err != nil {
			return err
		}
		if !exists {
			return VerifyError(gen.TableName())
		}
	}

	return nil
}

// createIndexes executes the IndexDDL statements of every
// model. The statements use IF NOT EXISTS so re-running
// Create on an existing schema is safe.
func (m *manager) createIndexes(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	for _, model := range schema.AllModels() {
		gen, ok := model.(schema.DDLGenerator)
		if !ok {
			continue
		}

		for _, stmt := range gen.IndexDDL() {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				return IndexError(gen.TableName(), err)
			}
		}
	}

	return nil
}

// setCollation sets "C" collation on specified varchar
// columns. This keeps place-name sorting byte-stable across
// locales, so exports and rankings order the same everywhere.
func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	type columnDef struct {
		table, column string
		varchar       int
	}

	columns := []columnDef{
		{"merged_rows", "state", 100},
		{"merged_rows", "district", 150},
		{"merged_rows", "month", 7},
		{"name_mappings", "state", 100},
		{"name_mappings", "raw", 255},
		{"name_mappings", "canonical", 255},
	}

	qStr := `ALTER TABLE %s ALTER COLUMN %s ` +
		`TYPE VARCHAR(%d) COLLATE "C"`

	for _, col := range columns {
		q := fmt.Sprintf(qStr, col.table, col.column, col.varchar)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col.table, col.column, err)
		}
	}

	return nil
}
