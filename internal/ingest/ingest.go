// Package ingest parses lead batches from JSON, CSV, and XLSX files, the
// formats business scrapers commonly hand off.
package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// Options configures the tabular parsers.
type Options struct {
	Delimiter rune   // CSV field separator, default ','
	Encoding  string // CSV charset, default utf-8
}

// ReadFile loads a lead batch, picking the parser by file extension.
func ReadFile(path string, opts Options) ([]lead.Lead, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readJSON(path)
	case ".csv":
		return readCSV(path, opts)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, eris.Errorf("ingest: unsupported input format %q", filepath.Ext(path))
	}
}

func readJSON(path string) ([]lead.Lead, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	var batch []lead.Lead
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, eris.Wrapf(err, "ingest: parse %s", path)
	}
	return batch, nil
}

// headerIndex maps lowercased column names to their position.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return idx
}

// fromRecord builds a lead from one tabular row. Unparseable numeric
// cells are left unset rather than failing the whole file.
func fromRecord(idx map[string]int, record []string) lead.Lead {
	cell := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	l := lead.Lead{
		Name:      cell("name"),
		Address:   cell("address"),
		Phone:     cell("phone"),
		Email:     cell("email"),
		Website:   cell("website"),
		Category:  cell("category"),
		PlaceID:   cell("place_id"),
		MapsURL:   cell("maps_url"),
		SourceURL: cell("source_url"),
	}

	if v, err := strconv.ParseFloat(cell("rating"), 64); err == nil {
		l.Rating = &v
	}
	if v, err := strconv.Atoi(cell("review_count")); err == nil {
		l.ReviewCount = &v
	}
	lat, latErr := strconv.ParseFloat(cell("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(cell("longitude"), 64)
	if latErr == nil && lonErr == nil {
		l.Latitude = &lat
		l.Longitude = &lon
	}
	if t, err := time.Parse(time.RFC3339, cell("captured_at")); err == nil {
		l.CapturedAt = t
	}

	// Social cells use "platform=url" pairs separated by semicolons, the
	// same shape the exporter writes.
	for _, pair := range strings.Split(cell("social"), ";") {
		platform, u, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		l.SetSocial(strings.ToLower(platform), u)
	}

	return l
}
