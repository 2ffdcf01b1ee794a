package iodb

import (
	"fmt"

	"github.com/distpulse/dpulse/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError creates an error for failed PostgreSQL
// connections.
func ConnectionError(
	host string, port int, database, user string, err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d/%s</em>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Connection settings are wrong
  - The database has not been created yet

<em>How to fix:</em>
  1. Check the server accepts connections:
     <em>pg_isready</em>
  2. Verify the database exists:
     <em>psql -U %s -l | grep %s</em>
  3. Review your settings:
     <em>~/.config/dpulse/config.yaml</em> or DPULSE_DATABASE_* variables`

	vars := []any{host, port, database, user, database}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// TableCheckError creates an error for when checking the
// public schema for tables fails.
func TableCheckError(err error) error {
	msg := "Cannot verify the database state"

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// EmptyDatabaseError creates an error for when analysis is
// attempted against a database without tables.
func EmptyDatabaseError(host, database string) error {
	msg := `The database has no tables yet

<em>Required steps:</em>
  1. Create the schema:
     <em>dpulse create</em>
  2. Load the transaction files:
     <em>dpulse etl</em>

<em>Current database:</em>
  Host: %s
  Database: %s`

	vars := []any{host, database}

	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"database has no tables - run 'dpulse create' and 'dpulse etl' first"),
	}
}

// NotConnectedError creates an error for when a database
// operation is attempted without a connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError creates an error for failed
// single-table existence checks.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"

	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// QueryTablesError creates an error for when listing tables
// in the public schema fails.
func QueryTablesError(err error) error {
	msg := "Cannot list tables in the public schema"

	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError creates an error for when reading table
// names from a query result fails.
func ScanTableError(err error) error {
	msg := "Cannot read table names from the database"

	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError creates an error for failed DROP TABLE
// statements.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"

	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
