package ioexport

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gnames/gnfmt"
)

// document is the wrapper written for every json table file. The
// columns field preserves the column order that the row objects lose.
type document struct {
	ExportedAt string           `json:"exported_at"`
	Total      int              `json:"total"`
	Columns    []string         `json:"columns"`
	Rows       []map[string]any `json:"rows"`
}

// writeJSON writes one document per table under a json subdirectory.
func writeJSON(dir string, tables []table) (string, error) {
	jsonDir := filepath.Join(dir, "json")
	if err := os.MkdirAll(jsonDir, 0o755); err != nil {
		return "", CreateFileError(jsonDir, err)
	}

	enc := gnfmt.GNjson{Pretty: true}
	exportedAt := time.Now().Format(time.RFC3339)
	for _, tbl := range tables {
		doc := document{
			ExportedAt: exportedAt,
			Total:      len(tbl.rows),
			Columns:    tbl.headers,
			Rows:       make([]map[string]any, 0, len(tbl.rows)),
		}
		for _, row := range tbl.rows {
			obj := make(map[string]any, len(row))
			for i, v := range row {
				obj[tbl.headers[i]] = v
			}
			doc.Rows = append(doc.Rows, obj)
		}

		path := filepath.Join(jsonDir, tbl.name+".json")
		bs, err := enc.Encode(doc)
		if err != nil {
			return "", WriteError(path, err)
		}
		if err = os.WriteFile(path, bs, 0o644); err != nil {
			return "", CreateFileError(path, err)
		}
	}
	return jsonDir, nil
}
