package ioexport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/distpulse/dpulse/pkg/analytics"
	"github.com/distpulse/dpulse/pkg/canon"
	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/errcode"
	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves fixture data without a database.
type fakeStore struct {
	merged   *ident.MergedTable
	mappings []canon.Entry
	out      *analytics.Outputs
}

func (f *fakeStore) StoreResult(context.Context, *ident.Result) error {
	return nil
}

func (f *fakeStore) LoadMergedTable(context.Context) (*ident.MergedTable, error) {
	return f.merged, nil
}

func (f *fakeStore) LoadMappings(context.Context) ([]canon.Entry, error) {
	return f.mappings, nil
}

func (f *fakeStore) StoreAnalysis(context.Context, *analytics.Outputs) error {
	return nil
}

func (f *fakeStore) LoadAnalysis(context.Context) (*analytics.Outputs, error) {
	return f.out, nil
}

func fixtureStore(t *testing.T) *fakeStore {
	t.Helper()
	return &fakeStore{
		merged:   fixtureMerged(t),
		mappings: fixtureMappings(),
		out:      fixtureOutputs(),
	}
}

func TestExport_CSV(t *testing.T) {
	cfg := config.New()
	cfg.Export.Format = "csv"
	cfg.Export.Path = t.TempDir()

	exp := New(cfg, fixtureStore(t))
	require.NoError(t, exp.Export(context.Background()))

	entries, err := os.ReadDir(filepath.Join(cfg.Export.Path, "csv"))
	require.NoError(t, err)
	assert.Len(t, entries, 25)

	_, err = os.Stat(filepath.Join(
		cfg.Export.Path, "csv", "merged_rows.csv"))
	assert.NoError(t, err)
}

func TestExport_XLSX(t *testing.T) {
	cfg := config.New()
	cfg.Export.Format = "xlsx"
	cfg.Export.Path = t.TempDir()

	exp := New(cfg, fixtureStore(t))
	require.NoError(t, exp.Export(context.Background()))

	_, err := os.Stat(filepath.Join(cfg.Export.Path, workbookName))
	assert.NoError(t, err)
}

func TestExport_UnknownFormat(t *testing.T) {
	cfg := config.New()
	// Bypasses the option validation on purpose: the dispatch has to
	// hold its own.
	cfg.Export.Format = "tsv"
	cfg.Export.Path = t.TempDir()

	err := New(cfg, fixtureStore(t)).Export(context.Background())
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ExportFormatError, gnErr.Code)
}

func TestOutDir_Default(t *testing.T) {
	cfg := config.New()
	cfg.HomeDir = "/home/whoever"

	e := &exporter{cfg: cfg}
	assert.Equal(t,
		filepath.Join("/home/whoever", ".local", "share", "dpulse", "exports"),
		e.outDir())

	cfg.Export.Path = "/tmp/out"
	assert.Equal(t, "/tmp/out", e.outDir())
}

func TestAnalysisEmpty(t *testing.T) {
	assert.True(t, analysisEmpty(&analytics.Outputs{}))
	assert.False(t, analysisEmpty(fixtureOutputs()))
	assert.False(t, analysisEmpty(&analytics.Outputs{
		Recommendations: []analytics.RecommendationRow{{}},
	}))
}
