package pipeline

import (
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/registry"
)

var foldCaser = cases.Fold()

// normalizeText produces the comparison form of a keyword: NFKC-normalized,
// case-folded, punctuation stripped, whitespace collapsed.
func normalizeText(text string) string {
	text = norm.NFKC.String(text)
	text = foldCaser.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// Punctuation separates tokens rather than joining them, so
			// "sign-up" and "sign up" normalize identically.
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenSignature builds the sorted content-word signature used for
// near-duplicate grouping: stop-words removed, tokens deduplicated, sorted.
func tokenSignature(normalized string, reg *registry.Registry) string {
	tokens := strings.Fields(normalized)
	seen := make(map[string]bool, len(tokens))
	content := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if reg.IsStopWord(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		content = append(content, tok)
	}
	// A keyword made entirely of stop-words still needs a distinct
	// signature, otherwise "how to" and "what if" would collide.
	if len(content) == 0 {
		return normalized
	}
	sort.Strings(content)
	return strings.Join(content, "|")
}

// FastDedup removes exact and near-exact string duplicates in O(n),
// keeping the first occurrence of each comparison key and each token
// signature. Returns the survivors in input order and the drop count.
func FastDedup(candidates []model.Keyword, reg *registry.Registry) ([]model.Keyword, int) {
	seenExact := make(map[string]bool, len(candidates))
	seenSig := make(map[string]bool, len(candidates))

	out := make([]model.Keyword, 0, len(candidates))
	for _, kw := range candidates {
		normalized := normalizeText(kw.Text)
		if normalized == "" || seenExact[normalized] {
			continue
		}

		sig := tokenSignature(normalized, reg)
		if seenSig[sig] {
			continue
		}

		seenExact[normalized] = true
		seenSig[sig] = true
		kw.SetTokenSignature(sig)
		out = append(out, kw)
	}

	dropped := len(candidates) - len(out)
	if dropped > 0 {
		zap.L().Debug("fast dedup removed duplicates",
			zap.Int("input", len(candidates)),
			zap.Int("dropped", dropped))
	}
	return out, dropped
}
