package ioexport

import (
	"errors"
	"testing"

	"github.com/distpulse/dpulse/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatError_Structure(t *testing.T) {
	err := FormatError("tsv")
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "should be *gn.Error")

	assert.Equal(t, errcode.ExportFormatError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Contains(t, gnErr.Msg, "sqlite")
	assert.Len(t, gnErr.Vars, 1)
	assert.Equal(t, "tsv", gnErr.Vars[0])
}

func TestCreateFileError_Structure(t *testing.T) {
	cause := errors.New("permission denied")
	err := CreateFileError("/no/such/dir", cause)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "should be *gn.Error")

	assert.Equal(t, errcode.ExportCreateFileError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 1)
	assert.Equal(t, "/no/such/dir", gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, cause)
}

func TestWriteError_Structure(t *testing.T) {
	cause := errors.New("disk full")
	err := WriteError("/tmp/exports/dpulse.xlsx", cause)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "should be *gn.Error")

	assert.Equal(t, errcode.ExportWriteError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 1)
	assert.Equal(t, "/tmp/exports/dpulse.xlsx", gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, cause)
}

func TestExportErrors_Wrapping(t *testing.T) {
	cause := errors.New("root cause")

	tests := []struct {
		name string
		err  error
	}{
		{"create file", CreateFileError("/tmp/x", cause)},
		{"write", WriteError("/tmp/x", cause)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok)
			assert.ErrorIs(t, gnErr.Err, cause)
		})
	}
}
