package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// FormatReport generates a human-readable keyword research report.
func FormatReport(company *model.CompanyInfo, result *model.GenerationResult) string {
	var b strings.Builder

	name := company.Name
	if name == "" {
		name = company.URL
	}
	fmt.Fprintf(&b, "# Keyword Research Report: %s\n", name)
	if company.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", company.Industry)
	}
	b.WriteString("\n")

	stats := result.Statistics

	// Summary.
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Keywords: %d\n", stats.Total)
	fmt.Fprintf(&b, "- Average score: %.1f\n", stats.AvgScore)
	fmt.Fprintf(&b, "- Duplicates removed: %d string, %d semantic\n", stats.DuplicateCount, stats.SemanticDropCount)
	fmt.Fprintf(&b, "- Excluded: %d unscored, %d below threshold or beyond target\n", stats.UnscoredCount, stats.FilteredCount)
	fmt.Fprintf(&b, "- Processing time: %.1fs\n\n", result.ElapsedSec)

	// Stage results.
	b.WriteString("## Stages\n")
	for _, s := range result.Stages {
		fmt.Fprintf(&b, "- %s: %s (%dms)\n", s.Name, s.Status, s.Duration)
		if s.Error != "" {
			fmt.Fprintf(&b, "  Warning: %s\n", s.Error)
		}
	}
	b.WriteString("\n")

	// Intent breakdown, sorted by count descending then name.
	if len(stats.IntentBreakdown) > 0 {
		b.WriteString("## Intent Breakdown\n")
		type entry struct {
			intent model.Intent
			count  int
		}
		entries := make([]entry, 0, len(stats.IntentBreakdown))
		for intent, count := range stats.IntentBreakdown {
			entries = append(entries, entry{intent, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].intent < entries[j].intent
		})
		for _, e := range entries {
			fmt.Fprintf(&b, "- %s: %d\n", e.intent, e.count)
		}
		b.WriteString("\n")
	}

	// Clusters with members.
	if len(result.Clusters) > 0 {
		b.WriteString("## Clusters\n")
		for _, c := range result.Clusters {
			fmt.Fprintf(&b, "### %s (%d)\n", c.Name, len(c.Keywords))
			for _, kw := range c.Keywords {
				fmt.Fprintf(&b, "- %s\n", kw)
			}
			b.WriteString("\n")
		}
	}

	// Full keyword table.
	b.WriteString("## Keywords\n")
	b.WriteString("| Keyword | Score | Intent | Source | Cluster |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, kw := range result.Keywords {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			kw.Text, kw.Score, kw.Intent, kw.Source, kw.ClusterName)
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n## Warnings\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
