package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// WriteJSON writes the full generation result, keywords plus clusters,
// statistics, and stage outcomes, as indented JSON.
func WriteJSON(w io.Writer, result *model.GenerationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}
