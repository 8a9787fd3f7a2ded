package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/pipeline"
	"github.com/scaile-group/keywords-cli/internal/producer"
	"github.com/scaile-group/keywords-cli/internal/registry"
	"github.com/scaile-group/keywords-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg, err := registry.Default()
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

		api := &apiServer{reg: reg, oracle: o, store: st}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.routes(ctx),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

type apiServer struct {
	reg    *registry.Registry
	oracle oracle.Oracle
	store  store.Store
}

// routes builds the router. baseCtx outlives individual requests and is
// passed to async generation runs so they survive the request but die with
// the server.
func (s *apiServer) routes(baseCtx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Company == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company is required"})
			return
		}

		run, err := s.store.CreateRun(r.Context(), req.Company)
		if err != nil {
			zap.L().Error("create run failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create run"})
			return
		}

		go s.runGeneration(baseCtx, run.ID, req)

		writeJSON(w, http.StatusAccepted, map[string]string{
			"run_id": run.ID,
			"status": string(run.Status),
		})
	})

	r.Get("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		runs, err := s.store.ListRuns(r.Context(), store.RunFilter{
			Status:  model.RunStatus(r.URL.Query().Get("status")),
			Company: r.URL.Query().Get("company"),
			Limit:   100,
		})
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list runs"})
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/api/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	return r
}

type generateRequest struct {
	Company     string   `json:"company"`
	Industry    string   `json:"industry,omitempty"`
	Description string   `json:"description,omitempty"`
	Services    []string `json:"services,omitempty"`
	Count       int      `json:"count,omitempty"`
}

// runGeneration executes a full generation in the background. The API
// returns the run ID immediately; progress is observable through the run's
// status in the store.
func (s *apiServer) runGeneration(ctx context.Context, runID string, req generateRequest) {
	company := &model.CompanyInfo{
		Name:        req.Company,
		Industry:    req.Industry,
		Description: req.Description,
		Services:    req.Services,
	}

	gen := cfg.Generation
	if req.Count > 0 {
		gen.TargetCount = req.Count
	}

	pool := pipeline.NewPool()
	if _, err := producer.Generate(ctx, s.oracle, s.reg, company, gen, pool); err != nil {
		zap.L().Error("async generation failed",
			zap.String("run_id", runID),
			zap.Error(err))
		if err := s.store.UpdateRunStatus(ctx, runID, model.RunStatusFailed); err != nil {
			zap.L().Warn("failed to mark run failed", zap.Error(err))
		}
		return
	}

	// The pipeline runs storeless; this handler copies its terminal
	// state onto the API-created run so clients poll a single ID.
	p := pipeline.New(gen, cfg.Oracle.MaxShardSize, s.reg, s.oracle, nil)
	result, err := p.Refine(ctx, company, pool)
	if err != nil {
		zap.L().Error("async refinement failed",
			zap.String("run_id", runID),
			zap.Error(err))
		if err := s.store.UpdateRunStatus(ctx, runID, model.RunStatusFailed); err != nil {
			zap.L().Warn("failed to mark run failed", zap.Error(err))
		}
		return
	}

	if err := s.store.UpdateRunResult(ctx, runID, result); err != nil {
		zap.L().Error("failed to persist async result",
			zap.String("run_id", runID),
			zap.Error(err))
		return
	}

	zap.L().Info("async generation complete",
		zap.String("run_id", runID),
		zap.Int("keywords", len(result.Keywords)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
