// Package export writes lead batches to the configured output formats.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// Supported output formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// Options configures an export run.
type Options struct {
	Dir          string   `yaml:"dir" mapstructure:"dir"`
	Formats      []string `yaml:"formats" mapstructure:"formats"`
	BaseName     string   `yaml:"base_name" mapstructure:"base_name"`
	CSVDelimiter string   `yaml:"csv_delimiter" mapstructure:"csv_delimiter"`
	CSVEncoding  string   `yaml:"csv_encoding" mapstructure:"csv_encoding"`
	SQLiteTable  string   `yaml:"sqlite_table" mapstructure:"sqlite_table"`
}

// DefaultOptions returns the standard export settings.
func DefaultOptions() Options {
	return Options{
		Dir:          "./data",
		Formats:      []string{FormatCSV, FormatJSON, FormatSQLite},
		CSVDelimiter: ",",
		CSVEncoding:  "utf-8",
		SQLiteTable:  "leads",
	}
}

// Exporter writes a batch of leads to one or more formats.
type Exporter struct {
	opts Options
}

// New creates an Exporter, filling unset options from defaults.
func New(opts Options) *Exporter {
	def := DefaultOptions()
	if opts.Dir == "" {
		opts.Dir = def.Dir
	}
	if len(opts.Formats) == 0 {
		opts.Formats = def.Formats
	}
	if opts.CSVDelimiter == "" {
		opts.CSVDelimiter = def.CSVDelimiter
	}
	if opts.CSVEncoding == "" {
		opts.CSVEncoding = def.CSVEncoding
	}
	if opts.SQLiteTable == "" {
		opts.SQLiteTable = def.SQLiteTable
	}
	return &Exporter{opts: opts}
}

// Export writes the batch in every configured format and returns the
// paths written. The output directory is created if missing.
func (e *Exporter) Export(leads []lead.Lead) ([]string, error) {
	if err := os.MkdirAll(e.opts.Dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "export: create output dir")
	}

	base := e.opts.BaseName
	if base == "" {
		base = "leads_" + time.Now().Format("20060102_150405")
	}

	var paths []string
	for _, format := range e.opts.Formats {
		path := filepath.Join(e.opts.Dir, fmt.Sprintf("%s.%s", base, extension(format)))

		var err error
		switch format {
		case FormatCSV:
			err = e.writeCSV(path, leads)
		case FormatJSON:
			err = writeJSON(path, leads)
		case FormatXLSX:
			err = writeXLSX(path, leads)
		case FormatSQLite:
			err = e.writeSQLite(path, leads)
		default:
			return paths, eris.Errorf("export: unknown format %q", format)
		}
		if err != nil {
			return paths, err
		}

		zap.L().Info("export: wrote output",
			zap.String("format", format),
			zap.String("path", path),
			zap.Int("leads", len(leads)))
		paths = append(paths, path)
	}

	return paths, nil
}

func extension(format string) string {
	if format == FormatSQLite {
		return "db"
	}
	return format
}

// header is the column order shared by the tabular formats.
var header = []string{
	"name", "address", "phone", "email", "website", "category",
	"rating", "review_count", "latitude", "longitude",
	"place_id", "social", "maps_url", "source_url", "captured_at",
}

func record(l lead.Lead) []string {
	return []string{
		l.Name,
		l.Address,
		l.Phone,
		l.Email,
		l.Website,
		l.Category,
		formatFloat(l.Rating),
		formatInt(l.ReviewCount),
		formatFloat(l.Latitude),
		formatFloat(l.Longitude),
		l.PlaceID,
		formatSocial(l.Social),
		l.MapsURL,
		l.SourceURL,
		formatTime(l.CapturedAt),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// formatSocial renders the social map as "platform=url" pairs in the
// canonical platform order so output is deterministic.
func formatSocial(social map[string]string) string {
	out := ""
	for _, platform := range lead.Platforms {
		u, ok := social[platform]
		if !ok {
			continue
		}
		if out != "" {
			out += "; "
		}
		out += platform + "=" + u
	}
	return out
}
