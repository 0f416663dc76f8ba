package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

func writeJSON(path string, leads []lead.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create json file")
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leads); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}
