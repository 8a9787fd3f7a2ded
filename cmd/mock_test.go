//go:build !integration

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scaile-group/keywords-cli/internal/config"
	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/store"
)

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

// setTestConfig points the package-level config at test values and restores
// the previous value on cleanup.
func setTestConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{
		Oracle: config.OracleConfig{Provider: "gemini", MaxShardSize: 200},
		Server: config.ServerConfig{Port: 8080, AllowedOrigins: []string{"*"}},
		Generation: config.GenerationConfig{
			TargetCount:    10,
			MinScore:       40,
			ClusterCount:   6,
			GenBatchSize:   15,
			ScoreBatchSize: 25,
			MaxInFlight:    4,
			OverGenFactor:  1,
			EnableClusters: true,
		},
	}
	t.Cleanup(func() { cfg = prev })
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}
