package model

import (
	"fmt"
	"strings"
)

// CompanyInfo describes the business that keywords are generated for.
// The rich context fields (pain points, use cases, ...) come from the
// analyze step and make keywords company-specific instead of generic.
type CompanyInfo struct {
	Name           string   `json:"name"`
	URL            string   `json:"url,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	Description    string   `json:"description,omitempty"`
	Services       []string `json:"services,omitempty"`
	Products       []string `json:"products,omitempty"`
	Brands         []string `json:"brands,omitempty"`
	TargetLocation string   `json:"target_location,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	Competitors    []string `json:"competitors,omitempty"`

	PainPoints        []string `json:"pain_points,omitempty"`
	CustomerProblems  []string `json:"customer_problems,omitempty"`
	UseCases          []string `json:"use_cases,omitempty"`
	ValuePropositions []string `json:"value_propositions,omitempty"`
	Differentiators   []string `json:"differentiators,omitempty"`
	KeyFeatures       []string `json:"key_features,omitempty"`
}

// Context renders the company as a prompt context block. Empty fields are
// omitted so the oracle is not fed blank lines.
func (c CompanyInfo) Context() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s", c.Name)

	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "\n%s: %s", label, value)
		}
	}
	list := func(label string, values []string) {
		if len(values) > 0 {
			fmt.Fprintf(&b, "\n%s: %s", label, strings.Join(values, ", "))
		}
	}

	line("Industry", c.Industry)
	line("Description", c.Description)
	list("Services", c.Services)
	list("Products", c.Products)
	list("Brands", c.Brands)
	line("Location", c.TargetLocation)
	line("Target Audience", c.TargetAudience)
	list("Pain Points", c.PainPoints)
	list("Customer Problems", c.CustomerProblems)
	list("Use Cases", c.UseCases)
	list("Value Propositions", c.ValuePropositions)
	list("Differentiators", c.Differentiators)
	list("Key Features", c.KeyFeatures)

	return b.String()
}

// SeedTerms returns the terms worth expanding through autocomplete:
// services, products, and brands, falling back to the company name.
func (c CompanyInfo) SeedTerms() []string {
	seeds := make([]string, 0, len(c.Services)+len(c.Products)+len(c.Brands))
	seeds = append(seeds, c.Services...)
	seeds = append(seeds, c.Products...)
	seeds = append(seeds, c.Brands...)
	if len(seeds) == 0 && c.Name != "" {
		seeds = append(seeds, c.Name)
	}
	return seeds
}
