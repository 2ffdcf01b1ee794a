package ioetl

import (
	"errors"
	"fmt"

	"github.com/distpulse/dpulse/pkg/errcode"
	"github.com/gnames/gn"
)

// EmptyTableError creates an error for when the pipeline finishes with
// no merged rows at all.
func EmptyTableError() error {
	msg := `The pipeline produced no merged rows

<em>Possible causes:</em>
1. Every row was dropped as a duplicate or for a bad pincode or date
2. No state name passed canonicalization and unmatched rows are excluded
3. The source files are empty apart from their headers

<em>How to fix:</em>
1. Check the drop counters in the quality report above
2. Rerun with <em>--include-unmatched</em> to keep unrecognized states
3. Lower <em>match.state_threshold</em> in config.yaml`

	return &gn.Error{
		Code: errcode.PipelineEmptyTableError,
		Msg:  msg,
		Vars: nil,
		Err:  errors.New("pipeline produced an empty merged table"),
	}
}

// CancelledError creates an error for when the pipeline run is
// cancelled.
func CancelledError(err error) error {
	msg := "ETL pipeline was cancelled"

	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("pipeline cancelled: %w", err),
	}
}
