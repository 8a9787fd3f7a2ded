package oracle

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// cleanJSON strips markdown fences and extracts the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func parseGeneratedKeywords(text string) ([]model.Keyword, error) {
	var raw struct {
		Keywords []struct {
			Keyword    string `json:"keyword"`
			Intent     string `json:"intent"`
			IsQuestion bool   `json:"is_question"`
		} `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrap(err, "parse generated keywords")
	}

	keywords := make([]model.Keyword, 0, len(raw.Keywords))
	for _, k := range raw.Keywords {
		kw := strings.TrimSpace(k.Keyword)
		if kw == "" {
			continue
		}
		intent := model.Intent(strings.ToLower(strings.TrimSpace(k.Intent)))
		if !model.ValidIntent(intent) {
			intent = model.IntentInformational
		}
		keywords = append(keywords, model.Keyword{
			Text:       kw,
			Source:     model.SourceAIGenerated,
			Intent:     intent,
			IsQuestion: k.IsQuestion || intent == model.IntentQuestion,
		})
	}
	return keywords, nil
}

func parseScores(text string) (map[string]int, error) {
	var raw struct {
		Scores []struct {
			Keyword string `json:"keyword"`
			Score   int    `json:"score"`
		} `json:"scores"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrap(err, "parse scores")
	}

	scores := make(map[string]int, len(raw.Scores))
	for _, s := range raw.Scores {
		kw := strings.TrimSpace(s.Keyword)
		if kw == "" {
			continue
		}
		score := s.Score
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		scores[kw] = score
	}
	return scores, nil
}

func parseGroups(text string) ([][]string, error) {
	var raw struct {
		Groups [][]string `json:"groups"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrap(err, "parse dedup groups")
	}

	groups := make([][]string, 0, len(raw.Groups))
	for _, g := range raw.Groups {
		members := make([]string, 0, len(g))
		for _, m := range g {
			if m = strings.TrimSpace(m); m != "" {
				members = append(members, m)
			}
		}
		if len(members) >= 2 {
			groups = append(groups, members)
		}
	}
	return groups, nil
}

func parseClusters(text string) (map[string]string, error) {
	var raw struct {
		Clusters []struct {
			Name     string   `json:"name"`
			Keywords []string `json:"keywords"`
		} `json:"clusters"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrap(err, "parse clusters")
	}

	assignments := make(map[string]string)
	for _, c := range raw.Clusters {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = model.ClusterUncategorized
		}
		for _, kw := range c.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			// First assignment wins when the model lists a keyword twice.
			if _, seen := assignments[kw]; !seen {
				assignments[kw] = name
			}
		}
	}
	return assignments, nil
}

func parseResearchQueries(text string) ([]string, error) {
	var raw struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrap(err, "parse research queries")
	}

	queries := make([]string, 0, len(raw.Keywords))
	for _, q := range raw.Keywords {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

func parseCompanyInfo(text string) (*model.CompanyInfo, error) {
	var info model.CompanyInfo
	if err := json.Unmarshal([]byte(cleanJSON(text)), &info); err != nil {
		return nil, eris.Wrap(err, "parse company info")
	}
	if info.Name == "" && info.Description == "" {
		return nil, eris.New("parse company info: empty profile")
	}
	return &info, nil
}
