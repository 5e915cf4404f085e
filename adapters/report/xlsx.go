package report

import (
	"math"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes all sheets into one workbook
func WriteXLSX(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}

		for c, h := range s.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(s.Name, cell, h); err != nil {
				return err
			}
		}
		for r, row := range s.Rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellValue(s.Name, cell, xlsxValue(v)); err != nil {
					return err
				}
			}
		}
	}
	f.SetActiveSheet(0)

	return f.SaveAs(path)
}

// xlsxValue keeps finite numbers numeric; NaN and Inf have no cell encoding
func xlsxValue(v interface{}) interface{} {
	if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
		return fToStr(x, 4)
	}
	return v
}
