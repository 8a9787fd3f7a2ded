package oracle

import (
	"fmt"
	"strings"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// intentPromptOrder keeps quota lines deterministic across calls.
var intentPromptOrder = []model.Intent{
	model.IntentQuestion,
	model.IntentCommercial,
	model.IntentTransactional,
	model.IntentComparison,
	model.IntentInformational,
}

func buildGeneratePrompt(req GenerateRequest) string {
	var b strings.Builder

	b.WriteString("You are an SEO keyword strategist. Generate search keywords that real potential customers of this company would type into Google.\n\n")
	b.WriteString(req.Company.Context())
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Generate exactly %d keywords.\n", req.Count)

	if len(req.IntentQuota) > 0 {
		b.WriteString("Intent mix requirements (minimum counts):\n")
		for _, intent := range intentPromptOrder {
			if n := req.IntentQuota[intent]; n > 0 {
				fmt.Fprintf(&b, "- at least %d with intent %q\n", n, intent)
			}
		}
	}

	if req.Language != "" {
		fmt.Fprintf(&b, "All keywords must be in %s.\n", req.Language)
	}
	if req.Region != "" {
		fmt.Fprintf(&b, "Target searchers in %s; include location-qualified variants where natural.\n", req.Region)
	}

	b.WriteString(`
Rules:
- Keywords must be phrases a real person would search, not marketing copy.
- Prefer 2-5 word long-tail phrases over single generic words.
- Never invent brand names the company does not own.
`)

	if len(req.Exclude) > 0 {
		b.WriteString("\nDo NOT repeat any of these already-generated keywords:\n")
		for _, kw := range req.Exclude {
			fmt.Fprintf(&b, "- %s\n", kw)
		}
	}

	b.WriteString(`
Respond with JSON only, no commentary:
{"keywords": [{"keyword": "...", "intent": "question|commercial|transactional|comparison|informational", "is_question": true}]}`)

	return b.String()
}

func buildScorePrompt(companyContext string, texts []string) string {
	var b strings.Builder

	b.WriteString("You are an SEO relevance judge. Score how well each keyword fits this specific company, 0-100.\n\n")
	b.WriteString(companyContext)
	b.WriteString(`

Scoring rubric:
- 90-100: a searcher typing this is very likely an ideal customer.
- 70-89: strongly relevant to the company's offering.
- 40-69: related to the industry but generic or ambiguous.
- 0-39: wrong audience, wrong intent, or off-topic.

Keywords to score:
`)
	for _, t := range texts {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString(`
Echo each keyword exactly as given. Respond with JSON only:
{"scores": [{"keyword": "...", "score": 85}]}`)

	return b.String()
}

func buildDedupPrompt(texts []string) string {
	var b strings.Builder

	b.WriteString(`Identify keywords below that mean the same thing to a search engine, differing only in phrasing, word order, or filler words. "crm pricing" and "cost of crm" are equivalent; "crm pricing" and "crm features" are not.

Keywords:
`)
	for _, t := range texts {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString(`
List only groups with 2 or more equivalent keywords, echoing each keyword exactly as given. Respond with JSON only:
{"groups": [["keyword a", "keyword b"], ["keyword c", "keyword d", "keyword e"]]}`)

	return b.String()
}

func buildClusterPrompt(texts []string, clusterCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Group the keywords below into about %d topical clusters for an SEO content plan. Cluster names should be short topic labels (2-4 words). Every keyword belongs to exactly one cluster.\n\nKeywords:\n", clusterCount)
	for _, t := range texts {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString(`
Echo each keyword exactly as given. Respond with JSON only:
{"clusters": [{"name": "Topic Label", "keywords": ["...", "..."]}]}`)

	return b.String()
}

// researchChannelHints maps a channel to where the search should look.
var researchChannelHints = map[string]string{
	"reddit": "site:reddit.com discussions and questions",
	"quora":  "site:quora.com questions",
	"forum":  "niche community forums and discussion boards",
	"paa":    `Google "People also ask" boxes on results for this company's space`,
}

func buildResearchPrompt(company *model.CompanyInfo, channel string) string {
	hint, ok := researchChannelHints[channel]
	if !ok {
		hint = "online discussions"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search %s for questions and phrases real people use when discussing problems this company solves.\n\n", hint)
	b.WriteString(company.Context())
	b.WriteString(`

Extract 15-25 search queries in the users' own words. Keep them as a searcher would phrase them, not rewritten into marketing language.

Respond with JSON only:
{"keywords": ["...", "..."]}`)

	return b.String()
}

func buildAnalyzePrompt(websiteURL, description string) string {
	var b strings.Builder

	b.WriteString("Analyze this business and produce a structured profile for SEO keyword research.\n\n")
	if websiteURL != "" {
		fmt.Fprintf(&b, "Website: %s (search for and read its pages)\n", websiteURL)
	}
	if description != "" {
		fmt.Fprintf(&b, "Description provided by the business:\n%s\n", description)
	}

	b.WriteString(`
Respond with JSON only, using empty arrays for anything you cannot determine:
{
  "name": "...",
  "url": "...",
  "industry": "...",
  "description": "one paragraph",
  "services": ["..."],
  "products": ["..."],
  "brands": ["..."],
  "target_location": "...",
  "target_audience": "...",
  "competitors": ["..."],
  "pain_points": ["..."],
  "customer_problems": ["..."],
  "use_cases": ["..."],
  "value_propositions": ["..."],
  "differentiators": ["..."],
  "key_features": ["..."]
}`)

	return b.String()
}
