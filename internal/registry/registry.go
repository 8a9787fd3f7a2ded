// Package registry holds the tunable generation vocabulary: per-intent
// batch quotas, the stop-word list used by fast dedup, and the question
// starters used for autocomplete fan-out. Defaults are embedded; a custom
// YAML file can override them.
package registry

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/scaile-group/keywords-cli/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Registry is the parsed generation vocabulary.
type Registry struct {
	IntentMix        map[model.Intent]float64 `yaml:"intent_mix"`
	StopWords        []string                 `yaml:"stop_words"`
	QuestionStarters []string                 `yaml:"question_starters"`

	stopWordSet map[string]bool
}

// Default returns the embedded registry.
func Default() (*Registry, error) {
	return parse(defaultsYAML)
}

// LoadFile reads a registry from a YAML file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read %s", path)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal")
	}

	for intent := range r.IntentMix {
		if !model.ValidIntent(intent) {
			return nil, eris.Errorf("registry: unknown intent %q in intent_mix", intent)
		}
	}

	r.stopWordSet = make(map[string]bool, len(r.StopWords))
	for _, w := range r.StopWords {
		r.stopWordSet[w] = true
	}
	return &r, nil
}

// IsStopWord reports whether a normalized token is a stop-word.
func (r *Registry) IsStopWord(token string) bool {
	return r.stopWordSet[token]
}

// IntentQuota returns the minimum number of keywords of the given intent in
// a batch of batchSize, with a floor so every intent is represented.
func (r *Registry) IntentQuota(intent model.Intent, batchSize int) int {
	frac, ok := r.IntentMix[intent]
	if !ok {
		return 0
	}
	n := int(frac * float64(batchSize))
	if n < 1 {
		n = 1
	}
	return n
}
