package producer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scaile-group/keywords-cli/internal/config"
	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/registry"
	"github.com/scaile-group/keywords-cli/pkg/autocomplete"
	"github.com/scaile-group/keywords-cli/pkg/dataforseo"
	"github.com/scaile-group/keywords-cli/pkg/seranking"
	"github.com/scaile-group/keywords-cli/pkg/trends"
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

// --- SE Ranking Mock ---

type mockSERanking struct {
	mock.Mock
}

func (m *mockSERanking) DomainKeywords(ctx context.Context, domain, source string, limit int) ([]seranking.DomainKeyword, error) {
	args := m.Called(ctx, domain, source, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seranking.DomainKeyword), args.Error(1)
}

func (m *mockSERanking) KeywordMetrics(ctx context.Context, keywords []string, source string) ([]seranking.KeywordMetric, error) {
	args := m.Called(ctx, keywords, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seranking.KeywordMetric), args.Error(1)
}

// --- DataForSEO Mock ---

type mockDataForSEO struct {
	mock.Mock
}

func (m *mockDataForSEO) PeopleAlsoAsk(ctx context.Context, keyword, location, language string) ([]string, error) {
	args := m.Called(ctx, keyword, location, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockDataForSEO) SearchVolume(ctx context.Context, keywords []string, location, language string) ([]dataforseo.VolumeResult, error) {
	args := m.Called(ctx, keywords, location, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dataforseo.VolumeResult), args.Error(1)
}

// --- Autocomplete Mock ---

type mockAutocomplete struct {
	mock.Mock
}

func (m *mockAutocomplete) Suggest(ctx context.Context, query, language string) ([]string, error) {
	args := m.Called(ctx, query, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Trends Mock ---

type mockTrends struct {
	mock.Mock
}

func (m *mockTrends) RelatedQueries(ctx context.Context, term, geo string) (*trends.RelatedResult, error) {
	args := m.Called(ctx, term, geo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trends.RelatedResult), args.Error(1)
}

// --- Helpers ---

var _ autocomplete.Client = (*mockAutocomplete)(nil)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	return reg
}

func testCompany() *model.CompanyInfo {
	return &model.CompanyInfo{
		Name:     "Acme CRM",
		Industry: "SaaS",
		Services: []string{"crm software"},
	}
}

func testGenerationConfig() config.GenerationConfig {
	return config.GenerationConfig{
		TargetCount:    10,
		MinScore:       40,
		ClusterCount:   6,
		GenBatchSize:   15,
		ScoreBatchSize: 25,
		MaxInFlight:    4,
		OverGenFactor:  2.5,
		EnableClusters: true,
	}
}
