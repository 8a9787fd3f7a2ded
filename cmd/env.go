package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/store"
	anthropicpkg "github.com/scaile-group/keywords-cli/pkg/anthropic"
	"github.com/scaile-group/keywords-cli/pkg/gemini"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "keywords.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initOracle() (oracle.Oracle, error) {
	switch cfg.Oracle.Provider {
	case "gemini":
		if cfg.Gemini.Key == "" {
			return nil, eris.New("gemini API key is required (KEYWORDS_GEMINI_KEY)")
		}
		client := gemini.NewClient(cfg.Gemini.Key, gemini.WithBaseURL(cfg.Gemini.BaseURL))
		return oracle.NewGemini(client, cfg.Gemini.Model, cfg.Gemini.ResearchModel), nil
	case "anthropic":
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("anthropic API key is required (KEYWORDS_ANTHROPIC_KEY)")
		}
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		return oracle.NewAnthropic(client, cfg.Anthropic.Model), nil
	default:
		return nil, eris.Errorf("unsupported oracle provider: %s", cfg.Oracle.Provider)
	}
}
