package iostore

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
)

// mergedColumns lists the merged_rows columns minus the serial id,
// in insert order.
var mergedColumns = []string{
	"state", "district", "month",
	"bio_child", "bio_adult", "demo_child", "demo_adult",
	"enrol_baby", "enrol_child", "enrol_adult", "total_enrolment",
}

// insertMergedRows upserts the merged table in batches. The unique
// (state, district, month) index resolves conflicts, so a re-run
// overwrites the counters of rows it has seen before.
func (s *store) insertMergedRows(
	ctx context.Context,
	rows []ident.MergedRow,
) (int64, error) {
	batchSize := batchRows(s.cfg.Database.BatchSize, len(mergedColumns))

	var total int64

	bar := pb.Full.Start(len(rows))
	bar.Set("prefix", "Storing merged rows: ")
	bar.Set(pb.CleanOnFinish, true)

	for i := 0; i < len(rows); i += batchSize {
		end := slices.Min([]int{i + batchSize, len(rows)})
		batch := rows[i:end]

		var valueStrings []string
		var valueArgs []any
		argIdx := 1

		for _, row := range batch {
			placeholders := make([]string, len(mergedColumns))
			for j := range mergedColumns {
				placeholders[j] = fmt.Sprintf("$%d", argIdx+j)
			}
			valueStrings = append(
				valueStrings,
				"("+strings.Join(placeholders, ", ")+")",
			)
			valueArgs = append(valueArgs,
				row.State, row.District, row.Month.String(),
				row.BioChild, row.BioAdult,
				row.DemoChild, row.DemoAdult,
				row.EnrolBaby, row.EnrolChild, row.EnrolAdult,
				row.TotalEnrolment,
			)
			argIdx += len(mergedColumns)
		}

		insertQuery := fmt.Sprintf(
			`INSERT INTO merged_rows (%s) VALUES %s
			 ON CONFLICT (state, district, month) DO UPDATE SET
			   bio_child = EXCLUDED.bio_child,
			   bio_adult = EXCLUDED.bio_adult,
			   demo_child = EXCLUDED.demo_child,
			   demo_adult = EXCLUDED.demo_adult,
			   enrol_baby = EXCLUDED.enrol_baby,
			   enrol_child = EXCLUDED.enrol_child,
			   enrol_adult = EXCLUDED.enrol_adult,
			   total_enrolment = EXCLUDED.total_enrolment`,
			strings.Join(mergedColumns, ", "),
			strings.Join(valueStrings, ", "),
		)

		result, err := s.operator.Pool().Exec(ctx, insertQuery, valueArgs...)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert merged rows batch: %w", err)
		}

		total += result.RowsAffected()
		bar.Add(len(batch))
	}

	bar.Finish()

	return total, nil
}

// LoadMergedTable reads the merged table back from the database. An
// empty table is reported as a typed error telling the user to run
// the ETL first.
func (s *store) LoadMergedTable(
	ctx context.Context,
) (*ident.MergedTable, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	query := `
SELECT state, district, month,
       bio_child, bio_adult, demo_child, demo_adult,
       enrol_baby, enrol_child, enrol_adult, total_enrolment
  FROM merged_rows
 ORDER BY state, district, month`

	dbRows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, LoadTableError("merged_rows", err)
	}
	defer dbRows.Close()

	var rows []ident.MergedRow
	for dbRows.Next() {
		var row ident.MergedRow
		var month string
		err = dbRows.Scan(
			&row.State, &row.District, &month,
			&row.BioChild, &row.BioAdult,
			&row.DemoChild, &row.DemoAdult,
			&row.EnrolBaby, &row.EnrolChild, &row.EnrolAdult,
			&row.TotalEnrolment,
		)
		if err != nil {
			return nil, LoadTableError("merged_rows", err)
		}
		if row.Month, err = ident.ParseMonth(month); err != nil {
			return nil, LoadTableError("merged_rows", err)
		}
		rows = append(rows, row)
	}
	if err = dbRows.Err(); err != nil {
		return nil, LoadTableError("merged_rows", err)
	}

	if len(rows) == 0 {
		return nil, EmptyTableError()
	}

	table, err := ident.NewMergedTable(rows)
	if err != nil {
		return nil, LoadTableError("merged_rows", err)
	}

	slog.Info("Loaded merged table",
		"rows", table.Len(),
		"states", len(table.States()),
		"districts", len(table.Places()),
	)
	gn.Message("<em>Loaded %s merged rows</em>",
		humanize.Comma(int64(table.Len())))

	return table, nil
}
