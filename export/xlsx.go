package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"ytexport/youtube"
)

const sheetName = "Playlist"

// columnWidths sizes the sheet's columns to the data they carry. Keyed by
// column letter, matching tableHeader order.
var columnWidths = map[string]float64{
	"A": 60, // title
	"B": 10, // duration
	"C": 14, // views
	"D": 12, // likes
	"E": 46, // URL
	"F": 12, // published
}

// xlsxEncoder is the stock spreadsheet tier. Any failure is reported as
// ErrEncoderUnavailable so the renderer degrades to CSV.
type xlsxEncoder struct {
	style Style
}

func (e *xlsxEncoder) EncodeSheet(run *youtube.ExtractionRun, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: float64(e.style.BodySize)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}

	if err := writeRow(f, 1, tableHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", headerStyle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}

	for i, row := range rows {
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, cells []string) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
		}
	}
	return nil
}
