package producer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/pkg/dataforseo"
)

// volumeChunkSize caps keywords per search-volume request.
const volumeChunkSize = 700

// EnrichVolume attaches search volume to refined keywords via DataForSEO.
// Keywords that already carry a volume (gap analysis attaches it at
// production time) keep it; lookups never drop, reorder, or rescore
// anything. Returns how many keywords received a volume.
func EnrichVolume(ctx context.Context, dfs dataforseo.Client, keywords []model.Keyword, location, language string) int {
	missing := make([]string, 0, len(keywords))
	for i := range keywords {
		if keywords[i].Volume == nil {
			missing = append(missing, keywords[i].Text)
		}
	}
	if len(missing) == 0 {
		return 0
	}

	volumes := make(map[string]int, len(missing))
	for start := 0; start < len(missing); start += volumeChunkSize {
		end := start + volumeChunkSize
		if end > len(missing) {
			end = len(missing)
		}

		results, err := dfs.SearchVolume(ctx, missing[start:end], location, language)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			zap.L().Warn("producer: search volume lookup failed, keywords stay unenriched",
				zap.Int("keywords", end-start),
				zap.Error(err))
			continue
		}
		for _, r := range results {
			volumes[strings.ToLower(r.Keyword)] = r.SearchVolume
		}
	}

	enriched := 0
	for i := range keywords {
		if keywords[i].Volume != nil {
			continue
		}
		if v, ok := volumes[strings.ToLower(keywords[i].Text)]; ok {
			volume := v
			keywords[i].Volume = &volume
			enriched++
		}
	}

	zap.L().Debug("producer: volume enrichment complete",
		zap.Int("looked_up", len(missing)),
		zap.Int("enriched", enriched))
	return enriched
}

// aeoPointsPerQuestion converts a People Also Ask presence into an
// opportunity score: each PAA slot for the keyword is a chance to be the
// cited answer.
const aeoPointsPerQuestion = 25

// EnrichSERP attaches an answer-engine-opportunity score to the top
// sampleSize refined keywords by probing the live SERP for People Also Ask
// coverage. Keywords outside the sample and failed lookups keep an absent
// score. Returns the PAA questions discovered along the way so callers can
// surface them as content suggestions.
func EnrichSERP(ctx context.Context, dfs dataforseo.Client, keywords []model.Keyword, sampleSize int, location, language string) []string {
	if sampleSize <= 0 || sampleSize > len(keywords) {
		sampleSize = len(keywords)
	}

	var questions []string
	seen := make(map[string]bool)
	for i := 0; i < sampleSize; i++ {
		paa, err := dfs.PeopleAlsoAsk(ctx, keywords[i].Text, location, language)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			zap.L().Warn("producer: SERP lookup failed, keyword stays unenriched",
				zap.String("keyword", keywords[i].Text),
				zap.Error(err))
			continue
		}

		score := len(paa) * aeoPointsPerQuestion
		if score > 100 {
			score = 100
		}
		keywords[i].AEOOpportunity = &score

		for _, q := range paa {
			key := strings.ToLower(strings.TrimSpace(q))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			questions = append(questions, q)
		}
	}

	zap.L().Debug("producer: SERP enrichment complete",
		zap.Int("sampled", sampleSize),
		zap.Int("paa_questions", len(questions)))
	return questions
}
