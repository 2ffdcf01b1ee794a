package ioexport

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// workbookName is the file name of the xlsx export.
const workbookName = "dpulse.xlsx"

// writeXLSX writes every table as one sheet of a single workbook.
// Sheet names reuse the table names, all within the 31-character
// limit Excel puts on them.
func writeXLSX(dir string, tables []table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", CreateFileError(dir, err)
	}
	path := filepath.Join(dir, workbookName)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return "", WriteError(path, err)
	}

	for i, tbl := range tables {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), tbl.name)
		} else {
			_, err = f.NewSheet(tbl.name)
		}
		if err != nil {
			return "", WriteError(path, err)
		}
		writeSheet(f, tbl, headerStyle)
	}

	if err = f.SaveAs(path); err != nil {
		return "", WriteError(path, err)
	}
	return path, nil
}

func writeSheet(f *excelize.File, tbl table, headerStyle int) {
	for col, h := range tbl.headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(tbl.name, cell, h)
		_ = f.SetCellStyle(tbl.name, cell, cell, headerStyle)
	}

	for i, row := range tbl.rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(tbl.name, cell, v)
		}
	}

	last, _ := excelize.ColumnNumberToName(len(tbl.headers))
	_ = f.SetColWidth(tbl.name, "A", last, 16)
}
