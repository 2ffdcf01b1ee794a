package iostore

import (
	"context"
	"fmt"
	"strings"

	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/gnames/gnfmt"
)

// categoryColumns lists the category_quality columns in insert order.
var categoryColumns = []string{
	"run_id", "category",
	"files_found", "files_skipped", "rows_read", "rows_kept",
	"duplicates", "bad_pincode", "bad_date", "unmapped_state_rows",
	"unmapped_states",
}

// insertQuality stores the run-level report and its per-category
// counters. Every run has a fresh id, so reports accumulate into a
// run history instead of replacing each other.
func (s *store) insertQuality(
	ctx context.Context,
	rep *ident.QualityReport,
) error {
	pool := s.operator.Pool()

	reportQuery := `
INSERT INTO quality_reports
  (run_id, started_at, finished_at, state_threshold, include_unmatched,
   merged_rows, states, districts, rows_dropped, first_month, last_month)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (run_id) DO NOTHING`

	_, err := pool.Exec(ctx, reportQuery,
		rep.RunID.String(), rep.StartedAt, rep.FinishedAt,
		rep.StateThreshold, rep.IncludeUnmatched,
		rep.MergedRows, rep.States, rep.Districts,
		rep.RowsDropped(), rep.FirstMonth.String(), rep.LastMonth.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert quality report: %w", err)
	}

	enc := gnfmt.GNjson{}
	var valueStrings []string
	var valueArgs []any
	argIdx := 1

	for _, cat := range ident.Categories {
		cq := rep.Categories[cat]
		if cq == nil {
			continue
		}

		unmapped, err := enc.Encode(cq.UnmappedStates)
		if err != nil {
			return fmt.Errorf("failed to encode unmapped states: %w", err)
		}

		placeholders := make([]string, len(categoryColumns))
		for j := range categoryColumns {
			placeholders[j] = fmt.Sprintf("$%d", argIdx+j)
		}
		valueStrings = append(
			valueStrings,
			"("+strings.Join(placeholders, ", ")+")",
		)
		valueArgs = append(valueArgs,
			rep.RunID.String(), cat.String(),
			cq.FilesFound, cq.FilesSkipped, cq.RowsRead, cq.RowsKept,
			cq.Duplicates, cq.BadPincode, cq.BadDate,
			cq.UnmappedStateRows, string(unmapped),
		)
		argIdx += len(categoryColumns)
	}

	if len(valueStrings) == 0 {
		return nil
	}

	categoryQuery := fmt.Sprintf(
		`INSERT INTO category_quality (%s) VALUES %s
		 ON CONFLICT (run_id, category) DO NOTHING`,
		strings.Join(categoryColumns, ", "),
		strings.Join(valueStrings, ", "),
	)

	if _, err = pool.Exec(ctx, categoryQuery, valueArgs...); err != nil {
		return fmt.Errorf("failed to insert category quality: %w", err)
	}

	return nil
}
