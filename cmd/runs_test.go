//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scaile-group/keywords-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "abc12345-6789-0000-0000-000000000000",
			Company:   "Acme CRM",
			Status:    model.RunStatusFiltered,
			Result:    &model.GenerationResult{Keywords: make([]model.Keyword, 42)},
			CreatedAt: now,
			UpdatedAt: now.Add(90 * time.Second),
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Company:   "A Company With A Very Long Name Indeed GmbH",
			Status:    model.RunStatusScored,
			CreatedAt: now.Add(-time.Hour),
			UpdatedAt: now.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "abc12345")
	assert.Contains(t, output, "Acme CRM")
	assert.Contains(t, output, "filtered")
	assert.Contains(t, output, "42")
	assert.Contains(t, output, "1m30s")
	assert.Contains(t, output, "...", "long company names are truncated")
	assert.NotContains(t, output, "Indeed GmbH")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789-0000-0000-000000000000"))
	assert.Equal(t, "short", truncateID("short"))
}
