package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sapictureday/leadgen/internal/model"
)

// WriteJSON writes the full lead records, enrichment bookkeeping included,
// so a later run can resume enrichment from the dump.
func WriteJSON(path string, leads []*model.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leads); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return f.Close()
}

// ReadJSON loads a lead dump written by WriteJSON.
func ReadJSON(path string) ([]*model.Lead, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: read %s", path)
	}

	var leads []*model.Lead
	if err := json.Unmarshal(raw, &leads); err != nil {
		return nil, eris.Wrapf(err, "export: parse %s", path)
	}
	return leads, nil
}
