package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/scaile-group/keywords-cli/internal/model"
)

func testResult() *model.GenerationResult {
	volume := 9900
	return &model.GenerationResult{
		Keywords: []model.Keyword{
			{
				Text:        "crm software",
				Score:       85,
				Intent:      model.IntentCommercial,
				Source:      model.SourceAIGenerated,
				ClusterName: "CRM Platforms",
				Volume:      &volume,
			},
			{
				Text:        "how to choose a crm",
				Score:       70,
				Intent:      model.IntentQuestion,
				IsQuestion:  true,
				Source:      model.SourceResearchReddit,
				ClusterName: "Buying Advice",
			},
		},
		Clusters: []model.Cluster{
			{Name: "CRM Platforms", Keywords: []string{"crm software"}},
			{Name: "Buying Advice", Keywords: []string{"how to choose a crm"}},
		},
		Statistics: model.Statistics{Total: 2, AvgScore: 77.5},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testResult().Keywords))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "keyword,score,intent,is_question,cluster,source,volume,difficulty,aeo_opportunity", lines[0])
	assert.Equal(t, "crm software,85,commercial,false,CRM Platforms,ai_generated,9900,,", lines[1])
	assert.Equal(t, "how to choose a crm,70,question,true,Buying Advice,research_reddit,,,", lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "keyword,score,intent,is_question,cluster,source,volume,difficulty,aeo_opportunity",
		strings.TrimSpace(buf.String()), "empty set still gets a header row")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testResult()))

	var decoded model.GenerationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Keywords, 2)
	assert.Equal(t, "crm software", decoded.Keywords[0].Text)
	require.NotNil(t, decoded.Keywords[0].Volume)
	assert.Equal(t, 9900, *decoded.Keywords[0].Volume)
	assert.Nil(t, decoded.Keywords[1].Volume)
	assert.Len(t, decoded.Clusters, 2)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testResult().Keywords))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Keywords", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Keyword", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "crm software", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "85", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "", sheet.Rows[1].Cells[7].Value, "absent difficulty stays empty")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	result := testResult()

	for _, name := range []string{"out.csv", "out.json", "out.xlsx"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, result))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestWriteFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := WriteFile(path, testResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	// No empty file is left behind on the rejected-format path.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
