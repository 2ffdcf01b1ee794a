package iostore

import (
	"errors"
	"fmt"

	"github.com/distpulse/dpulse/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for when a store operation is
// attempted without a database connection.
func NotConnectedError() error {
	msg := "Store operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  errors.New("not connected to database"),
	}
}

// StoreResultError creates an error for a failure while persisting
// one phase of the pipeline result.
func StoreResultError(stage string, err error) error {
	msg := `Failed to store <em>%s</em>

<em>Possible causes:</em>
  - The schema is missing or out of date
  - The database user lacks INSERT or UPDATE privileges
  - The connection dropped mid-write

<em>How to fix:</em>
  1. Re-create the schema: <em>dpulse create</em>
  2. Check the privileges of the configured database user
  3. Re-run: <em>dpulse etl</em>`

	vars := []any{stage}

	return &gn.Error{
		Code: errcode.PipelineStoreError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to store %s: %w", stage, err),
	}
}

// LoadTableError creates an error for a failure while reading a
// pipeline table back.
func LoadTableError(table string, err error) error {
	msg := `Failed to read table <em>%s</em>

<em>Possible causes:</em>
  - The schema is missing or out of date
  - The table holds rows written by an incompatible version

<em>How to fix:</em>
  1. Re-create the schema: <em>dpulse create --force</em>
  2. Re-run the pipeline: <em>dpulse etl</em>`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.PipelineLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read table %s: %w", table, err),
	}
}

// EmptyTableError creates an error for when the merged table holds no
// rows yet.
func EmptyTableError() error {
	msg := `The database holds no merged rows yet

<em>How to fix:</em>
  1. Load and merge the source data: <em>dpulse etl</em>
  2. Re-run this command`

	return &gn.Error{
		Code: errcode.PipelineEmptyTableError,
		Vars: nil,
		Msg:  msg,
		Err:  errors.New("merged table is empty"),
	}
}

// StoreAnalysisError creates an error for a failure while replacing
// one analysis table.
func StoreAnalysisError(table string, err error) error {
	msg := `Failed to store analysis outputs into <em>%s</em>

<em>Possible causes:</em>
  - The schema is missing or out of date
  - The database user lacks INSERT or DELETE privileges

<em>How to fix:</em>
  1. Re-create the schema: <em>dpulse create</em>
  2. Re-run: <em>dpulse analyze</em>`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.AnalyticsStoreError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to store analysis table %s: %w", table, err),
	}
}

// LoadAnalysisError creates an error for a failure while reading an
// analysis table back.
func LoadAnalysisError(table string, err error) error {
	msg := `Failed to read analysis table <em>%s</em>

<em>How to fix:</em>
  1. Re-run the analysis: <em>dpulse analyze</em>
  2. If the error persists, re-create the schema: <em>dpulse create --force</em>`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.AnalyticsLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read analysis table %s: %w", table, err),
	}
}
