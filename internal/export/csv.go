package export

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func (e *Exporter) writeCSV(path string, leads []lead.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv file")
	}
	defer f.Close() //nolint:errcheck

	out, err := encodeWriter(f, e.opts.CSVEncoding)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	if e.opts.CSVDelimiter != "" {
		w.Comma = rune(e.opts.CSVDelimiter[0])
	}

	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, l := range leads {
		if err := w.Write(record(l)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// encodeWriter wraps w with a transcoder for legacy spreadsheet tools.
// UTF-8 output gets a BOM so Excel detects the charset.
func encodeWriter(w io.Writer, encoding string) (io.Writer, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return nil, eris.Wrap(err, "export: write bom")
		}
		return w, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewEncoder().Writer(w), nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewEncoder().Writer(w), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewEncoder().Writer(w), nil
	default:
		return nil, eris.Errorf("export: unsupported csv encoding %q", encoding)
	}
}
