package ident

import "github.com/distpulse/dpulse/pkg/canon"

// Result is the output of one full pipeline run.
type Result struct {
	Merged   *MergedTable
	Mappings *canon.NameMap
	Quality  *QualityReport
}
