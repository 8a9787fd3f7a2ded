package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/export"
	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/pipeline"
	"github.com/scaile-group/keywords-cli/internal/producer"
	"github.com/scaile-group/keywords-cli/internal/registry"
	"github.com/scaile-group/keywords-cli/pkg/autocomplete"
	"github.com/scaile-group/keywords-cli/pkg/dataforseo"
	"github.com/scaile-group/keywords-cli/pkg/seranking"
	"github.com/scaile-group/keywords-cli/pkg/trends"
)

var genFlags struct {
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
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a refined keyword list for a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if genFlags.company == "" && genFlags.url == "" {
			return eris.New("either --company or --url is required")
		}

		applyGenerateFlags()

		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		o, err := initOracle()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		company, err := resolveCompany(ctx, o)
		if err != nil {
			return err
		}

		pool := pipeline.NewPool()
		if err := fillPool(ctx, o, reg, company, pool); err != nil {
			return err
		}

		p := pipeline.New(cfg.Generation, cfg.Oracle.MaxShardSize, reg, o, st)
		result, err := p.Refine(ctx, company, pool)
		if err != nil {
			return eris.Wrap(err, "refine")
		}

		enrich(ctx, result)

		zap.L().Info("generation complete",
			zap.String("company", company.Name),
			zap.Int("keywords", len(result.Keywords)),
			zap.Float64("avg_score", result.Statistics.AvgScore))

		if genFlags.output != "" {
			if err := export.WriteFile(genFlags.output, result); err != nil {
				return err
			}
			zap.L().Info("result exported", zap.String("path", genFlags.output))
			return nil
		}
		return export.WriteJSON(os.Stdout, result)
	},
}

// applyGenerateFlags folds command-line overrides into the loaded config.
func applyGenerateFlags() {
	if genFlags.count > 0 {
		cfg.Generation.TargetCount = genFlags.count
	}
	if genFlags.clusters > 0 {
		cfg.Generation.ClusterCount = genFlags.clusters
	}
	if genFlags.language != "" {
		cfg.Generation.Language = genFlags.language
	}
	if genFlags.region != "" {
		cfg.Generation.Region = genFlags.region
	}
	if genFlags.minScore >= 0 {
		cfg.Generation.MinScore = genFlags.minScore
	}
	cfg.Generation.EnableGaps = cfg.Generation.EnableGaps || genFlags.withGaps
	cfg.Generation.EnableResearch = cfg.Generation.EnableResearch || genFlags.withResearch
	cfg.Generation.EnableAutocompl = cfg.Generation.EnableAutocompl || genFlags.withAutocomplete
	cfg.Generation.EnableVolume = cfg.Generation.EnableVolume || genFlags.withVolume
	cfg.Generation.EnableSERP = cfg.Generation.EnableSERP || genFlags.withSERP
}

func loadRegistry() (*registry.Registry, error) {
	if genFlags.registryPath != "" {
		return registry.LoadFile(genFlags.registryPath)
	}
	return registry.Default()
}

// resolveCompany builds the company profile: from the website via the
// analyze oracle when --url is given, from flags otherwise. Flags override
// analyzed fields either way.
func resolveCompany(ctx context.Context, o oracle.Oracle) (*model.CompanyInfo, error) {
	company := &model.CompanyInfo{}

	if genFlags.url != "" {
		analyzed, err := o.AnalyzeCompany(ctx, genFlags.url, genFlags.description)
		if err != nil {
			return nil, eris.Wrap(err, "analyze company")
		}
		company = analyzed
		company.URL = genFlags.url
	}

	if genFlags.company != "" {
		company.Name = genFlags.company
	}
	if genFlags.industry != "" {
		company.Industry = genFlags.industry
	}
	if genFlags.description != "" {
		company.Description = genFlags.description
	}
	if len(genFlags.services) > 0 {
		company.Services = genFlags.services
	}
	if len(genFlags.products) > 0 {
		company.Products = genFlags.products
	}
	if genFlags.audience != "" {
		company.TargetAudience = genFlags.audience
	}
	if genFlags.location != "" {
		company.TargetLocation = genFlags.location
	}
	if len(genFlags.competitors) > 0 {
		company.Competitors = genFlags.competitors
	}
	return company, nil
}

// fillPool runs the enabled producers. AI generation is mandatory and its
// failure is fatal; the optional producers degrade to log-and-skip.
func fillPool(ctx context.Context, o oracle.Oracle, reg *registry.Registry, company *model.CompanyInfo, pool *pipeline.Pool) error {
	if _, err := producer.Generate(ctx, o, reg, company, cfg.Generation, pool); err != nil {
		return eris.Wrap(err, "generate candidates")
	}

	if cfg.Generation.EnableResearch {
		producer.Research(ctx, o, reg, company, pool)
	}

	if cfg.Generation.EnableGaps && len(company.Competitors) > 0 {
		if cfg.SERanking.Key == "" {
			zap.L().Warn("gap analysis enabled but SE Ranking key missing, skipping")
		} else {
			sr := seranking.NewClient(cfg.SERanking.Key, seranking.WithBaseURL(cfg.SERanking.BaseURL))
			producer.Gap(ctx, sr, company.Competitors, cfg.Generation.Region, cfg.SERanking.MaxCompetitors, pool)
		}
	}

	if cfg.Generation.EnableAutocompl {
		ac := autocomplete.NewClient(
			autocomplete.WithBaseURL(cfg.Autocomplete.BaseURL),
			autocomplete.WithRateLimit(cfg.Autocomplete.RequestsPerSec))
		producer.Autocomplete(ctx, ac, reg, company, cfg.Generation.Language, pool)
	}

	if genFlags.withTrends {
		tc := trends.NewClient(trends.WithBaseURL(cfg.Trends.BaseURL))
		producer.Trends(ctx, tc, reg, company, cfg.Generation.Region, pool)
	}

	zap.L().Info("candidate pool filled", zap.Int("candidates", pool.Len()))
	return nil
}

// enrich attaches volume and SERP metadata to the refined keywords.
func enrich(ctx context.Context, result *model.GenerationResult) {
	if !cfg.Generation.EnableVolume && !cfg.Generation.EnableSERP {
		return
	}
	if cfg.DataForSEO.Login == "" {
		zap.L().Warn("enrichment enabled but DataForSEO credentials missing, skipping")
		return
	}

	dfs := dataforseo.NewClient(cfg.DataForSEO.Login, cfg.DataForSEO.Password,
		dataforseo.WithBaseURL(cfg.DataForSEO.BaseURL),
		dataforseo.WithRateLimit(cfg.DataForSEO.RequestsPerSec))

	location := cfg.Generation.Region
	language := cfg.Generation.Language

	if cfg.Generation.EnableVolume {
		producer.EnrichVolume(ctx, dfs, result.Keywords, location, language)
	}
	if cfg.Generation.EnableSERP {
		questions := producer.EnrichSERP(ctx, dfs, result.Keywords, cfg.DataForSEO.SERPSampleSize, location, language)
		if len(questions) > 0 {
			zap.L().Info("people-also-ask questions discovered", zap.Int("count", len(questions)))
		}
	}
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genFlags.company, "company", "", "company name")
	f.StringVar(&genFlags.url, "url", "", "company website URL (triggers analysis)")
	f.StringVar(&genFlags.industry, "industry", "", "company industry")
	f.StringVar(&genFlags.description, "description", "", "business description seed")
	f.StringSliceVar(&genFlags.services, "services", nil, "services offered")
	f.StringSliceVar(&genFlags.products, "products", nil, "products offered")
	f.StringVar(&genFlags.audience, "audience", "", "target audience")
	f.StringVar(&genFlags.location, "location", "", "target location")
	f.StringSliceVar(&genFlags.competitors, "competitors", nil, "competitor domains for gap analysis")

	f.IntVar(&genFlags.count, "count", 0, "target keyword count (default from config)")
	f.IntVar(&genFlags.clusters, "clusters", 0, "target cluster count (default from config)")
	f.StringVar(&genFlags.language, "language", "", "output language (default from config)")
	f.StringVar(&genFlags.region, "region", "", "target region (default from config)")
	f.IntVar(&genFlags.minScore, "min-score", -1, "minimum relevance score 0-100 (default from config)")
	f.StringVar(&genFlags.registryPath, "registry", "", "custom generation registry YAML")
	f.StringVar(&genFlags.output, "output", "", "output file (.csv, .json, or .xlsx; default JSON to stdout)")

	f.BoolVar(&genFlags.withGaps, "with-gaps", false, "include competitor gap analysis")
	f.BoolVar(&genFlags.withResearch, "with-research", false, "include community research channels")
	f.BoolVar(&genFlags.withTrends, "with-trends", false, "include trends-related queries")
	f.BoolVar(&genFlags.withAutocomplete, "with-autocomplete", false, "include autocomplete expansion")
	f.BoolVar(&genFlags.withVolume, "with-volume", false, "enrich output with search volume")
	f.BoolVar(&genFlags.withSERP, "with-serp", false, "enrich output with SERP/AEO data")

	rootCmd.AddCommand(generateCmd)
}
