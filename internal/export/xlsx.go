package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/scaile-group/keywords-cli/internal/model"
)

var xlsxHeader = []string{
	"Keyword", "Score", "Intent", "Is Question", "Cluster", "Source",
	"Volume", "Difficulty", "AEO Opportunity",
}

// WriteXLSX writes the keywords as a single-sheet workbook.
func WriteXLSX(w io.Writer, keywords []model.Keyword) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Keywords")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().Value = h
	}

	for _, kw := range keywords {
		row := sheet.AddRow()
		row.AddCell().Value = kw.Text
		row.AddCell().SetInt(kw.Score)
		row.AddCell().Value = string(kw.Intent)
		row.AddCell().SetBool(kw.IsQuestion)
		row.AddCell().Value = kw.ClusterName
		row.AddCell().Value = string(kw.Source)
		addOptionalInt(row, kw.Volume)
		addOptionalInt(row, kw.Difficulty)
		addOptionalInt(row, kw.AEOOpportunity)
	}

	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

// addOptionalInt leaves the cell empty when the value is absent.
func addOptionalInt(row *xlsx.Row, v *int) {
	cell := row.AddCell()
	if v != nil {
		cell.SetInt(*v)
	}
}
