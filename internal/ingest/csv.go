package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func readCSV(path string, opts Options) ([]lead.Lead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	in, err := decodeReader(f, opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(in)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // allow variable fields

	var (
		idx   map[string]int
		leads []lead.Lead
		first = true
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}

		if first {
			first = false
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

// decodeReader strips a UTF-8 BOM and transcodes legacy charsets.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return skipBOM(r), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder().Reader(r), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	default:
		return nil, eris.Errorf("ingest: unsupported csv encoding %q", encoding)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func skipBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, _ := io.ReadFull(r, buf)
	if n == 3 && bytes.Equal(buf, utf8BOM) {
		return r
	}
	return io.MultiReader(bytes.NewReader(buf[:n]), r)
}
