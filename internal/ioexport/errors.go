package ioexport

import (
	"fmt"

	"github.com/distpulse/dpulse/pkg/errcode"
	"github.com/gnames/gn"
)

// FormatError creates an error for an unrecognized export format.
func FormatError(format string) error {
	msg := `Unknown export format <em>%s</em>

<em>How to fix:</em>
  Re-run with one of: <em>xlsx</em>, <em>csv</em>, <em>json</em>, <em>sqlite</em>`

	vars := []any{format}

	return &gn.Error{
		Code: errcode.ExportFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown export format %s", format),
	}
}

// CreateFileError creates an error for a failure to create an export
// file or directory.
func CreateFileError(path string, err error) error {
	msg := `Failed to create <em>%s</em>

<em>Possible causes:</em>
  - A parent directory is missing or not writable
  - The disk is full

<em>How to fix:</em>
  1. Pick a writable export path: <em>dpulse export --out DIR</em>
  2. Free disk space and re-run`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ExportCreateFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to create %s: %w", path, err),
	}
}

// WriteError creates an error for a failure while writing an export.
func WriteError(dest string, err error) error {
	msg := `Failed to write export to <em>%s</em>

<em>Possible causes:</em>
  - The disk filled up mid-write
  - Another program holds the destination open

<em>How to fix:</em>
  1. Close other programs using the destination
  2. Re-run: <em>dpulse export</em>, or pick another path with <em>--out</em>`

	vars := []any{dest}

	return &gn.Error{
		Code: errcode.ExportWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write export to %s: %w", dest, err),
	}
}
