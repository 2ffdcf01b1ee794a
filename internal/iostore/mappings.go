package iostore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/distpulse/dpulse/pkg/canon"
	"github.com/gnames/gnuuid"
)

// mappingColumns lists the name_mappings columns in insert order.
var mappingColumns = []string{
	"id", "kind", "state", "raw", "canonical", "score", "match",
}

// mappingID derives the deterministic row id of one mapping entry.
// The id is a UUID v5 over kind, scoping state and raw spelling, so
// the same spelling always lands on the same row and a re-run updates
// it in place.
func mappingID(e canon.Entry) string {
	seed := string(e.Kind) + "|" + e.State + "|" + e.Raw
	return gnuuid.New(seed).String()
}

// insertNameMappings upserts the resolution audit trail in batches.
// A spelling that resolves differently on a later run, after a
// threshold change for example, overwrites its earlier decision.
func (s *store) insertNameMappings(
	ctx context.Context,
	entries []canon.Entry,
) (int64, error) {
	batchSize := batchRows(s.cfg.Database.BatchSize, len(mappingColumns))

	var total int64

	for i := 0; i < len(entries); i += batchSize {
		end := slices.Min([]int{i + batchSize, len(entries)})
		batch := entries[i:end]

		var valueStrings []string
		var valueArgs []any
		argIdx := 1

		for _, e := range batch {
			placeholders := make([]string, len(mappingColumns))
			for j := range mappingColumns {
				placeholders[j] = fmt.Sprintf("$%d", argIdx+j)
			}
			valueStrings = append(
				valueStrings,
				"("+strings.Join(placeholders, ", ")+")",
			)
			valueArgs = append(valueArgs,
				mappingID(e), string(e.Kind), e.State, e.Raw,
				e.Canonical, e.Score, string(e.Match),
			)
			argIdx += len(mappingColumns)
		}

		insertQuery := fmt.Sprintf(
			`INSERT INTO name_mappings (%s) VALUES %s
			 ON CONFLICT (id) DO UPDATE SET
			   canonical = EXCLUDED.canonical,
			   score = EXCLUDED.score,
			   match = EXCLUDED.match`,
			strings.Join(mappingColumns, ", "),
			strings.Join(valueStrings, ", "),
		)

		result, err := s.operator.Pool().Exec(ctx, insertQuery, valueArgs...)
		if err != nil {
			return 0, fmt.Errorf(
				"failed to upsert name mappings batch: %w", err,
			)
		}

		total += result.RowsAffected()
	}

	return total, nil
}

// LoadMappings reads the resolution audit trail back, state entries
// first, each group sorted by state and raw spelling. The order
// matches the one the resolver reports after a run.
func (s *store) LoadMappings(ctx context.Context) ([]canon.Entry, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	query := `
SELECT kind, state, raw, canonical, score, match
  FROM name_mappings
 ORDER BY kind DESC, state, raw`

	dbRows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, LoadTableError("name_mappings", err)
	}
	defer dbRows.Close()

	var entries []canon.Entry
	for dbRows.Next() {
		var e canon.Entry
		var kind, match string
		err = dbRows.Scan(
			&kind, &e.State, &e.Raw, &e.Canonical, &e.Score, &match,
		)
		if err != nil {
			return nil, LoadTableError("name_mappings", err)
		}
		e.Kind = canon.Kind(kind)
		e.Match = canon.MatchType(match)
		entries = append(entries, e)
	}
	if err = dbRows.Err(); err != nil {
		return nil, LoadTableError("name_mappings", err)
	}

	return entries, nil
}
