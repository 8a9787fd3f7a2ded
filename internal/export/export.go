// Package export writes the final keyword set to CSV, JSON, or XLSX.
package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// WriteFile exports the result to path, with the format chosen by file
// extension: .csv, .json, or .xlsx.
func WriteFile(path string, result *model.GenerationResult) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".json", ".xlsx":
	default:
		return eris.Errorf("export: unsupported format %q (want .csv, .json, or .xlsx)", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}

	switch ext {
	case ".csv":
		err = WriteCSV(f, result.Keywords)
	case ".json":
		err = WriteJSON(f, result)
	case ".xlsx":
		err = WriteXLSX(f, result.Keywords)
	}
	if err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}
