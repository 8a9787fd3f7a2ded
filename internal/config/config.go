package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Oracle       OracleConfig       `yaml:"oracle" mapstructure:"oracle"`
	Gemini       GeminiConfig       `yaml:"gemini" mapstructure:"gemini"`
	Anthropic    AnthropicConfig    `yaml:"anthropic" mapstructure:"anthropic"`
	SERanking    SERankingConfig    `yaml:"seranking" mapstructure:"seranking"`
	DataForSEO   DataForSEOConfig   `yaml:"dataforseo" mapstructure:"dataforseo"`
	Trends       TrendsConfig       `yaml:"trends" mapstructure:"trends"`
	Autocomplete AutocompleteConfig `yaml:"autocomplete" mapstructure:"autocomplete"`
	Generation   GenerationConfig   `yaml:"generation" mapstructure:"generation"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OracleConfig selects and tunes the LLM oracle.
type OracleConfig struct {
	// Provider is "gemini" or "anthropic".
	Provider string `yaml:"provider" mapstructure:"provider"`
	// MaxShardSize is the largest candidate set sent to the oracle in a
	// single semantic-dedup or clustering call before sharding.
	MaxShardSize int `yaml:"max_shard_size" mapstructure:"max_shard_size"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	// ResearchModel is used for search-grounded research calls.
	ResearchModel string `yaml:"research_model" mapstructure:"research_model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SERankingConfig holds SE Ranking API settings for gap analysis.
type SERankingConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	MaxCompetitors int    `yaml:"max_competitors" mapstructure:"max_competitors"`
}

// DataForSEOConfig holds DataForSEO API settings for volume and SERP lookups.
type DataForSEOConfig struct {
	Login          string  `yaml:"login" mapstructure:"login"`
	Password       string  `yaml:"password" mapstructure:"password"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	SERPSampleSize int     `yaml:"serp_sample_size" mapstructure:"serp_sample_size"`
}

// TrendsConfig holds Google Trends settings.
type TrendsConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AutocompleteConfig configures the public suggest endpoint client.
type AutocompleteConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	MaxConcurrent  int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// GenerationConfig tunes the keyword refinement pipeline.
type GenerationConfig struct {
	TargetCount     int    `yaml:"target_count" mapstructure:"target_count"`
	MinScore        int    `yaml:"min_score" mapstructure:"min_score"`
	ClusterCount    int    `yaml:"cluster_count" mapstructure:"cluster_count"`
	Language        string `yaml:"language" mapstructure:"language"`
	Region          string `yaml:"region" mapstructure:"region"`
	MinWordCount    int    `yaml:"min_word_count" mapstructure:"min_word_count"`
	GenBatchSize    int    `yaml:"gen_batch_size" mapstructure:"gen_batch_size"`
	ScoreBatchSize  int    `yaml:"score_batch_size" mapstructure:"score_batch_size"`
	MaxInFlight     int    `yaml:"max_in_flight" mapstructure:"max_in_flight"`
	OverGenFactor   float64 `yaml:"over_gen_factor" mapstructure:"over_gen_factor"`
	EnableClusters  bool   `yaml:"enable_clusters" mapstructure:"enable_clusters"`
	EnableGaps      bool   `yaml:"enable_gaps" mapstructure:"enable_gaps"`
	EnableResearch  bool   `yaml:"enable_research" mapstructure:"enable_research"`
	EnableAutocompl bool   `yaml:"enable_autocomplete" mapstructure:"enable_autocomplete"`
	EnableVolume    bool   `yaml:"enable_volume" mapstructure:"enable_volume"`
	EnableSERP      bool   `yaml:"enable_serp" mapstructure:"enable_serp"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("KEYWORDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "keywords.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("oracle.provider", "gemini")
	v.SetDefault("oracle.max_shard_size", 200)
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.research_model", "gemini-2.5-pro")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("seranking.base_url", "https://api4.seranking.com")
	v.SetDefault("seranking.max_competitors", 3)
	v.SetDefault("dataforseo.base_url", "https://api.dataforseo.com")
	v.SetDefault("dataforseo.requests_per_sec", 5.0)
	v.SetDefault("dataforseo.serp_sample_size", 15)
	v.SetDefault("trends.base_url", "https://trends.google.com")
	v.SetDefault("autocomplete.base_url", "https://suggestqueries.google.com")
	v.SetDefault("autocomplete.requests_per_sec", 5.0)
	v.SetDefault("autocomplete.max_concurrent", 10)
	v.SetDefault("generation.target_count", 50)
	v.SetDefault("generation.min_score", 40)
	v.SetDefault("generation.cluster_count", 6)
	v.SetDefault("generation.language", "english")
	v.SetDefault("generation.region", "us")
	v.SetDefault("generation.min_word_count", 2)
	v.SetDefault("generation.gen_batch_size", 15)
	v.SetDefault("generation.score_batch_size", 25)
	v.SetDefault("generation.max_in_flight", 4)
	v.SetDefault("generation.over_gen_factor", 2.5)
	v.SetDefault("generation.enable_clusters", true)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate rejects invalid pipeline parameters before any stage runs.
func (g GenerationConfig) Validate() error {
	if g.TargetCount <= 0 {
		return eris.Errorf("config: target_count must be positive, got %d", g.TargetCount)
	}
	if g.MinScore < 0 || g.MinScore > 100 {
		return eris.Errorf("config: min_score must be in [0,100], got %d", g.MinScore)
	}
	if g.ClusterCount <= 0 {
		return eris.Errorf("config: cluster_count must be positive, got %d", g.ClusterCount)
	}
	if g.ScoreBatchSize <= 0 {
		return eris.Errorf("config: score_batch_size must be positive, got %d", g.ScoreBatchSize)
	}
	if g.GenBatchSize <= 0 {
		return eris.Errorf("config: gen_batch_size must be positive, got %d", g.GenBatchSize)
	}
	if g.MaxInFlight <= 0 {
		return eris.Errorf("config: max_in_flight must be positive, got %d", g.MaxInFlight)
	}
	if g.OverGenFactor < 1 {
		return eris.Errorf("config: over_gen_factor must be >= 1, got %g", g.OverGenFactor)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
