package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func writeXLSX(path string, leads []lead.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	row := sheet.AddRow()
	for _, col := range header {
		row.AddCell().SetString(col)
	}

	for _, l := range leads {
		row := sheet.AddRow()
		for _, cell := range record(l) {
			row.AddCell().SetString(cell)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save xlsx file")
	}
	return nil
}
