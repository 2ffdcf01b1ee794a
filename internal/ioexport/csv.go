package ioexport

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// writeCSV writes one file per table under a csv subdirectory.
func writeCSV(dir string, tables []table) (string, error) {
	csvDir := filepath.Join(dir, "csv")
	if err := os.MkdirAll(csvDir, 0o755); err != nil {
		return "", CreateFileError(csvDir, err)
	}

	for _, tbl := range tables {
		path := filepath.Join(csvDir, tbl.name+".csv")
		if err := writeCSVFile(path, tbl); err != nil {
			return "", err
		}
	}
	return csvDir, nil
}

func writeCSVFile(path string, tbl table) error {
	file, err := os.Create(path)
	if err != nil {
		return CreateFileError(path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err = w.Write(tbl.headers); err != nil {
		return WriteError(path, err)
	}

	record := make([]string, len(tbl.headers))
	for _, row := range tbl.rows {
		for i, v := range row {
			record[i] = cellString(v)
		}
		if err = w.Write(record); err != nil {
			return WriteError(path, err)
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return WriteError(path, err)
	}
	return nil
}

// cellString renders one cell for the csv files. Floats keep their
// shortest exact form rather than a fixed precision.
func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
