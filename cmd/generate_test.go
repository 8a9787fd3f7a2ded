//go:build !integration

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scaile-group/keywords-cli/internal/model"
)

func resetGenFlags() {
	genFlags = struct {
		company     string
		url         string
		industry    string
		description string
		services    []string
		products    []string
		audience    string
		location    string
		competitors []string

		count        int
		clusters     int
		language     string
		region       string
		minScore     int
		registryPath string
		output       string

		withGaps         bool
		withResearch     bool
		withTrends       bool
		withAutocomplete bool
		withVolume       bool
		withSERP         bool
	}{minScore: -1}
}

func TestApplyGenerateFlags(t *testing.T) {
	setTestConfig(t)
	resetGenFlags()
	genFlags.count = 20
	genFlags.minScore = 70
	genFlags.withResearch = true

	applyGenerateFlags()

	assert.Equal(t, 20, cfg.Generation.TargetCount)
	assert.Equal(t, 70, cfg.Generation.MinScore)
	assert.True(t, cfg.Generation.EnableResearch)
	assert.False(t, cfg.Generation.EnableGaps)
	assert.Equal(t, 6, cfg.Generation.ClusterCount, "unset flags leave config untouched")
}

func TestApplyGenerateFlags_MinScoreZeroIsValid(t *testing.T) {
	setTestConfig(t)
	resetGenFlags()
	genFlags.minScore = 0

	applyGenerateFlags()

	assert.Equal(t, 0, cfg.Generation.MinScore)
}

func TestResolveCompany_FromFlags(t *testing.T) {
	setTestConfig(t)
	resetGenFlags()
	genFlags.company = "Acme CRM"
	genFlags.industry = "SaaS"
	genFlags.services = []string{"crm software"}
	genFlags.competitors = []string{"rival.example"}

	o := &mockOracle{}
	company, err := resolveCompany(context.Background(), o)

	require.NoError(t, err)
	assert.Equal(t, "Acme CRM", company.Name)
	assert.Equal(t, "SaaS", company.Industry)
	assert.Equal(t, []string{"crm software"}, company.Services)
	assert.Equal(t, []string{"rival.example"}, company.Competitors)
	o.AssertNotCalled(t, "AnalyzeCompany")
}

func TestResolveCompany_FromURL(t *testing.T) {
	setTestConfig(t)
	resetGenFlags()
	genFlags.url = "https://acme.example"
	genFlags.industry = "Fintech" // flag overrides analyzed field

	o := &mockOracle{}
	o.On("AnalyzeCompany", mock.Anything, "https://acme.example", "").
		Return(&model.CompanyInfo{Name: "Acme", Industry: "SaaS"}, nil)

	company, err := resolveCompany(context.Background(), o)

	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	assert.Equal(t, "Fintech", company.Industry)
	assert.Equal(t, "https://acme.example", company.URL)
	o.AssertExpectations(t)
}

func TestResolveCompany_AnalyzeFailure(t *testing.T) {
	setTestConfig(t)
	resetGenFlags()
	genFlags.url = "https://acme.example"

	o := &mockOracle{}
	o.On("AnalyzeCompany", mock.Anything, "https://acme.example", "").
		Return(nil, assert.AnError)

	_, err := resolveCompany(context.Background(), o)
	require.Error(t, err)
}
