package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func readXLSX(path string) ([]lead.Lead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}

	var (
		idx   map[string]int
		leads []lead.Lead
	)
	for i, row := range f.Sheets[0].Rows {
		record := rowToStrings(row)

		if i == 0 {
			idx = headerIndex(record)
			continue
		}

		l := fromRecord(idx, record)
		if l.Name == "" && l.Address == "" && l.Phone == "" {
			continue
		}
		leads = append(leads, l)
	}

	return leads, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
