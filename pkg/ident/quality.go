package ident

import (
	"time"

	"github.com/google/uuid"
)

// CategoryQuality holds load and validation counters for one category.
type CategoryQuality struct {
	FilesFound        int            `json:"files_found"`
	FilesSkipped      int            `json:"files_skipped"`
	RowsRead          int            `json:"rows_read"`
	RowsKept          int            `json:"rows_kept"`
	Duplicates        int            `json:"duplicates"`
	BadPincode        int            `json:"bad_pincode"`
	BadDate           int            `json:"bad_date"`
	UnmappedStateRows int            `json:"unmapped_state_rows"`
	UnmappedStates    map[string]int `json:"unmapped_states,omitempty"`
}

// QualityReport summarizes one pipeline run: what was read, what was
// dropped and why, and the shape of the merged output.
type QualityReport struct {
	RunID            uuid.UUID                     `json:"run_id"`
	StartedAt        time.Time                     `json:"started_at"`
	FinishedAt       time.Time                     `json:"finished_at"`
	StateThreshold   float64                       `json:"state_threshold"`
	IncludeUnmatched bool                          `json:"include_unmatched"`
	Categories       map[Category]*CategoryQuality `json:"categories"`

	MergedRows int   `json:"merged_rows"`
	States     int   `json:"states"`
	Districts  int   `json:"districts"`
	FirstMonth Month `json:"first_month"`
	LastMonth  Month `json:"last_month"`
}

// NewQualityReport starts a report for a fresh run.
func NewQualityReport(stateThreshold float64, includeUnmatched bool) *QualityReport {
	rep := &QualityReport{
		RunID:            uuid.New(),
		StartedAt:        time.Now(),
		StateThreshold:   stateThreshold,
		IncludeUnmatched: includeUnmatched,
		Categories:       make(map[Category]*CategoryQuality),
	}
	for _, cat := range Categories {
		rep.Categories[cat] = &CategoryQuality{
			UnmappedStates: make(map[string]int),
		}
	}
	return rep
}

// Finish records the merged table shape and the finish time.
func (q *QualityReport) Finish(t *MergedTable) {
	q.FinishedAt = time.Now()
	q.MergedRows = t.Len()
	q.States = len(t.States())
	q.Districts = len(t.Places())
	if first, last, ok := t.MonthSpan(); ok {
		q.FirstMonth = first
		q.LastMonth = last
	}
}

// RowsDropped returns the total number of rows dropped across all
// categories and reasons. Rows with unrecognized states count only
// when the run excluded them; under IncludeUnmatched they survive in
// the Unmatched bucket.
func (q *QualityReport) RowsDropped() int {
	var n int
	for _, cq := range q.Categories {
		n += cq.Duplicates + cq.BadPincode + cq.BadDate
		if !q.IncludeUnmatched {
			n += cq.UnmappedStateRows
		}
	}
	return n
}
