// Package ioload reads the category CSV exports into raw records.
// This is an impure I/O package; everything after it operates on
// in-memory data.
package ioload

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/distpulse/dpulse/pkg/pipeline"
	"github.com/distpulse/dpulse/pkg/sources"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"golang.org/x/sync/errgroup"
)

// countColumns lists the per-category count headers, in slot order.
var countColumns = map[ident.Category][]string{
	ident.Biometric:   {"bio_age_5_17", "bio_age_17_"},
	ident.Demographic: {"demo_age_5_17", "demo_age_17_"},
	ident.Enrolment:   {"age_0_5", "age_5_17", "age_18_greater"},
}

// loader implements the pipeline.Loader interface.
type loader struct {
	cfg *config.Config
	src *sources.SourcesConfig
}

// New creates a Loader over a validated sources configuration.
func New(cfg *config.Config, src *sources.SourcesConfig) pipeline.Loader {
	return &loader{cfg: cfg, src: src}
}

// Load reads all categories in parallel. Unreadable or malformed files
// are skipped and counted; a category without a single readable file is
// fatal.
func (l *loader) Load(
	ctx context.Context,
	rep *ident.QualityReport,
) (map[ident.Category][]ident.RawRecord, error) {
	res := make(map[ident.Category][]ident.RawRecord, len(ident.Categories))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.JobsNumber)

	for _, cat := range ident.Categories {
		g.Go(func() error {
			recs, err := l.loadCategory(gctx, cat, rep.Categories[cat])
			if err != nil {
				return err
			}
			mu.Lock()
			res[cat] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, cat := range ident.Categories {
		cq := rep.Categories[cat]
		gn.Message(
			"<em>Loaded %s %s rows from %d file(s)</em>",
			humanize.Comma(int64(cq.RowsRead)),
			cat,
			cq.FilesFound-cq.FilesSkipped,
		)
	}

	return res, nil
}

func (l *loader) loadCategory(
	ctx context.Context,
	cat ident.Category,
	cq *ident.CategoryQuality,
) ([]ident.RawRecord, error) {
	catCfg, ok := l.src.Get(cat.String())
	if !ok {
		return nil, NoSourceFilesError(cat, "(not configured)")
	}

	dir := sources.ResolveParent(l.cfg.Data.Dir, catCfg.Parent)
	paths, err := filepath.Glob(filepath.Join(dir, catCfg.Pattern))
	if err != nil {
		return nil, NoSourceFilesError(cat, dir)
	}
	sort.Strings(paths)

	cq.FilesFound = len(paths)
	if len(paths) == 0 {
		return nil, NoSourceFilesError(cat, dir)
	}

	var res []ident.RawRecord
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		recs, err := readFile(path, cat)
		if err != nil {
			cq.FilesSkipped++
			gn.Warn(
				"Skipping <em>%s</em>: %s",
				filepath.Base(path), err.Error(),
			)
			slog.Warn("Skipping source file",
				"category", cat,
				"path", path,
				"error", err,
			)
			continue
		}

		res = append(res, recs...)
		slog.Info("Loaded source file",
			"category", cat,
			"path", path,
			"rows", len(recs),
		)
	}

	cq.RowsRead = len(res)
	if cq.FilesSkipped == cq.FilesFound {
		return nil, NoSourceFilesError(cat, dir)
	}
	return res, nil
}

// columnIndex holds the positions of the mapped columns in one file.
type columnIndex struct {
	date     int
	state    int
	district int
	pincode  int
	counts   []int
}

// mapHeader locates the required columns, matching header names
// case-insensitively. Extra columns are ignored.
func mapHeader(header []string, cat ident.Category) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	idx := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}

	ci := columnIndex{
		date:     idx("date"),
		state:    idx("state"),
		district: idx("district"),
		pincode:  idx("pincode"),
	}
	for _, name := range countColumns[cat] {
		ci.counts = append(ci.counts, idx(name))
	}

	if len(missing) > 0 {
		return ci, fmt.Errorf(
			"missing columns: %s", strings.Join(missing, ", "),
		)
	}
	return ci, nil
}

// readFile reads one CSV export. Any read or structural error makes the
// whole file malformed; partial data is discarded.
func readFile(path string, cat ident.Category) ([]ident.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}

	cols, err := mapHeader(header, cat)
	if err != nil {
		return nil, err
	}

	var res []ident.RawRecord
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(res)+2, err)
		}

		rec := ident.RawRecord{
			Date:     strings.TrimSpace(fields[cols.date]),
			State:    strings.TrimSpace(fields[cols.state]),
			District: strings.TrimSpace(fields[cols.district]),
			Pincode:  strings.TrimSpace(fields[cols.pincode]),
		}
		for i, idx := range cols.counts {
			rec.Counts[i] = parseCount(fields[idx])
		}
		res = append(res, rec)
	}

	return res, nil
}

// parseCount loads unparseable count cells as zero, keeping the row.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
