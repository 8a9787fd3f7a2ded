package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/registry"
)

// --- Oracle Mock ---

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) GenerateKeywords(ctx context.Context, req oracle.GenerateRequest) ([]model.Keyword, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Keyword), args.Error(1)
}

func (m *mockOracle) ScoreBatch(ctx context.Context, companyContext string, texts []string) (map[string]int, error) {
	args := m.Called(ctx, companyContext, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *mockOracle) DedupGroups(ctx context.Context, texts []string) ([][]string, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

func (m *mockOracle) ClusterKeywords(ctx context.Context, texts []string, clusterCount int) (map[string]string, error) {
	args := m.Called(ctx, texts, clusterCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockOracle) Research(ctx context.Context, company *model.CompanyInfo, channel string) ([]string, error) {
	args := m.Called(ctx, company, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockOracle) AnalyzeCompany(ctx context.Context, websiteURL, description string) (*model.CompanyInfo, error) {
	args := m.Called(ctx, websiteURL, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CompanyInfo), args.Error(1)
}

// --- Helpers ---

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	return reg
}

func candidate(text string) model.Keyword {
	return model.Keyword{Text: text, Source: model.SourceAIGenerated, Intent: model.IntentInformational}
}

func scoredCandidate(text string, score int) model.Keyword {
	kw := candidate(text)
	kw.Score = score
	kw.Scored = true
	return kw
}

func texts(kws []model.Keyword) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = kw.Text
	}
	return out
}
