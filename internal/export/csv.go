package export

import (
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// csvRow is the flat CSV projection of a keyword. Pointer fields render
// as empty cells when absent, so "no volume data" never looks like zero.
type csvRow struct {
	Keyword        string `csv:"keyword"`
	Score          int    `csv:"score"`
	Intent         string `csv:"intent"`
	IsQuestion     bool   `csv:"is_question"`
	Cluster        string `csv:"cluster"`
	Source         string `csv:"source"`
	Volume         *int   `csv:"volume"`
	Difficulty     *int   `csv:"difficulty"`
	AEOOpportunity *int   `csv:"aeo_opportunity"`
}

// WriteCSV writes the keywords as CSV with a header row.
func WriteCSV(w io.Writer, keywords []model.Keyword) error {
	rows := make([]csvRow, len(keywords))
	for i, kw := range keywords {
		rows[i] = csvRow{
			Keyword:        kw.Text,
			Score:          kw.Score,
			Intent:         string(kw.Intent),
			IsQuestion:     kw.IsQuestion,
			Cluster:        kw.ClusterName,
			Source:         string(kw.Source),
			Volume:         kw.Volume,
			Difficulty:     kw.Difficulty,
			AEOOpportunity: kw.AEOOpportunity,
		}
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "export: marshal csv")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write csv")
	}
	return nil
}
