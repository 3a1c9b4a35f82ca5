package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/maraisdata/seatmap/internal/site"
)

// WriteXLSX writes the site snapshot as a single-sheet workbook with the
// same columns as the CSV export and a bold header row.
func WriteXLSX(sites []site.Site, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("sites")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true
	headerStyle.ApplyFont = true

	header := sheet.AddRow()
	for _, col := range csvColumns {
		cell := header.AddCell()
		cell.Value = col
		cell.SetStyle(headerStyle)
	}

	for _, s := range sites {
		row := sheet.AddRow()
		for _, field := range csvRow(s) {
			row.AddCell().Value = field
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
