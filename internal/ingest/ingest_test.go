package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileJSON(t *testing.T) {
	path := writeTemp(t, "leads.json",
		`[{"name":"Joe's Pizza","place_id":"p-1","rating":4.5},{"name":"Plain Cafe"}]`)

	leads, err := ReadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Joe's Pizza", leads[0].Name)
	assert.Equal(t, "p-1", leads[0].PlaceID)
	require.NotNil(t, leads[0].Rating)
	assert.InDelta(t, 4.5, *leads[0].Rating, 1e-9)
}

func TestReadFileCSV(t *testing.T) {
	path := writeTemp(t, "leads.csv",
		"name,address,phone,rating,latitude,longitude,social\n"+
			"Joe's Pizza,1 Main St,555-123-4567,4.5,40.7,-74.0,facebook=https://facebook.com/joes; instagram=https://instagram.com/joes\n"+
			"Plain Cafe,,,not-a-number,,,\n"+
			",,,,,,\n")

	leads, err := ReadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	assert.Equal(t, "Joe's Pizza", leads[0].Name)
	assert.Equal(t, "1 Main St", leads[0].Address)
	require.NotNil(t, leads[0].Rating)
	assert.InDelta(t, 4.5, *leads[0].Rating, 1e-9)
	require.NotNil(t, leads[0].Latitude)
	assert.InDelta(t, 40.7, *leads[0].Latitude, 1e-9)
	assert.Equal(t, "https://facebook.com/joes", leads[0].Social[lead.PlatformFacebook])
	assert.Equal(t, "https://instagram.com/joes", leads[0].Social[lead.PlatformInstagram])

	// Bad numeric cell is left unset, not an error.
	assert.Nil(t, leads[1].Rating)
}

func TestReadFileCSVWithBOM(t *testing.T) {
	path := writeTemp(t, "leads.csv", "\xEF\xBB\xBFname,phone\nJoe's Pizza,5551234567\n")

	leads, err := ReadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Joe's Pizza", leads[0].Name)
}

func TestReadFileCSVLatin1(t *testing.T) {
	path := writeTemp(t, "leads.csv", "name;phone\nCaf\xe9 Ren\xe9;5551234567\n")

	leads, err := ReadFile(path, Options{Delimiter: ';', Encoding: "latin1"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Café René", leads[0].Name)
}

func TestReadFileCSVHalfCoordinate(t *testing.T) {
	path := writeTemp(t, "leads.csv", "name,latitude,longitude\nJoe's Pizza,40.7,\n")

	leads, err := ReadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Nil(t, leads[0].Latitude)
	assert.Nil(t, leads[0].Longitude)
}

func TestReadFileXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leads.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	require.NoError(t, err)
	for _, row := range [][]string{
		{"name", "phone", "place_id"},
		{"Joe's Pizza", "5551234567", "p-1"},
		{"", "", ""},
	} {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}
	require.NoError(t, f.Save(path))

	leads, err := ReadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Joe's Pizza", leads[0].Name)
	assert.Equal(t, "p-1", leads[0].PlaceID)
}

func TestReadFileUnsupported(t *testing.T) {
	_, err := ReadFile("leads.parquet", Options{})
	assert.Error(t, err)
}

func TestReadFileUnknownEncoding(t *testing.T) {
	path := writeTemp(t, "leads.csv", "name\nJoe's Pizza\n")
	_, err := ReadFile(path, Options{Encoding: "ebcdic"})
	assert.Error(t, err)
}
