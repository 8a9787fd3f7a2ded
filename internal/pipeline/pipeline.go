package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/config"
	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/registry"
	"github.com/scaile-group/keywords-cli/internal/store"
)

// Pipeline runs the five refinement stages over a candidate pool.
type Pipeline struct {
	cfg       config.GenerationConfig
	shardSize int
	reg       *registry.Registry
	oracle    oracle.Oracle
	store     store.Store
}

// New creates a Pipeline. The store may be nil when run history is not
// wanted; shardSize bounds the candidate count per semantic-dedup and
// clustering call.
func New(cfg config.GenerationConfig, shardSize int, reg *registry.Registry, o oracle.Oracle, st store.Store) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		shardSize: shardSize,
		reg:       reg,
		oracle:    o,
		store:     st,
	}
}

// Refine executes fast dedup, scoring, semantic dedup, clustering, and
// selection in order over the pool's candidates. Configuration errors are
// fatal before any stage runs; stage degradation is not.
func (p *Pipeline) Refine(ctx context.Context, company *model.CompanyInfo, pool *Pool) (*model.GenerationResult, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	if company == nil {
		return nil, eris.New("pipeline: company is required")
	}

	log := zap.L().With(zap.String("company", company.Name))
	log.Info("pipeline: starting refinement", zap.Int("candidates", pool.Len()))

	started := time.Now()
	result := &model.GenerationResult{}

	var runID string
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, company.Name)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		runID = run.ID
		result.RunID = runID
	}

	setStatus := func(status model.RunStatus) {
		if p.store == nil {
			return
		}
		if err := p.store.UpdateRunStatus(ctx, runID, status); err != nil {
			log.Warn("pipeline: failed to update run status", zap.Error(err))
		}
	}

	trackStage := func(name string, fn func() (model.StageResult, error)) error {
		start := time.Now()
		stage, err := fn()
		stage.Name = name
		stage.Duration = time.Since(start).Milliseconds()

		if err != nil {
			stage.Status = model.StageStatusFailed
			stage.Error = err.Error()
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", stage.Duration),
				zap.Error(err))
		} else {
			if stage.Status == "" {
				stage.Status = model.StageStatusComplete
			}
			log.Info("pipeline: stage complete",
				zap.String("stage", name),
				zap.String("status", string(stage.Status)),
				zap.Int64("duration_ms", stage.Duration))
		}

		if stage.Status == model.StageStatusDegraded && stage.Error != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", name, stage.Error))
		}

		result.Stages = append(result.Stages, stage)
		if p.store != nil {
			if saveErr := p.store.SaveStage(ctx, runID, stage); saveErr != nil {
				log.Warn("pipeline: failed to save stage", zap.String("stage", name), zap.Error(saveErr))
			}
		}
		return err
	}

	fail := func(err error) (*model.GenerationResult, error) {
		setStatus(model.RunStatusFailed)
		return nil, err
	}

	candidates := pool.Candidates()

	// Stage 1: fast dedup
	var duplicates int
	_ = trackStage("fast_dedup", func() (model.StageResult, error) {
		candidates, duplicates = FastDedup(candidates, p.reg)
		return model.StageResult{Metadata: map[string]any{
			"survivors": len(candidates),
			"dropped":   duplicates,
		}}, nil
	})
	setStatus(model.RunStatusDeduplicated)

	// Stage 2: batched scoring
	var scoring scoreOutcome
	if err := trackStage("score", func() (model.StageResult, error) {
		scored, outcome, err := ScoreAll(ctx, p.oracle, company.Context(), candidates, p.cfg.ScoreBatchSize, p.cfg.MaxInFlight)
		if err != nil {
			return model.StageResult{}, err
		}
		candidates = scored
		scoring = outcome

		stage := model.StageResult{Metadata: map[string]any{
			"batches":        outcome.totalBatches,
			"failed_batches": outcome.failedBatches,
			"unscored":       outcome.unscored,
		}}
		if outcome.failedBatches > 0 {
			stage.Status = model.StageStatusDegraded
			stage.Error = fmt.Sprintf("%d of %d batches failed", outcome.failedBatches, outcome.totalBatches)
		}
		return stage, nil
	}); err != nil {
		return fail(err)
	}
	setStatus(model.RunStatusScored)

	// Stage 3: semantic dedup
	var semDrops int
	if err := trackStage("semantic_dedup", func() (model.StageResult, error) {
		kept, outcome, err := SemanticDedup(ctx, p.oracle, candidates, p.shardSize)
		if err != nil {
			return model.StageResult{}, err
		}
		candidates = kept
		semDrops = outcome.dropped

		stage := model.StageResult{Metadata: map[string]any{
			"shards":        outcome.totalShards,
			"failed_shards": outcome.failedShards,
			"dropped":       outcome.dropped,
		}}
		if outcome.failedShards > 0 {
			stage.Status = model.StageStatusDegraded
			stage.Error = fmt.Sprintf("%d of %d shards failed open", outcome.failedShards, outcome.totalShards)
		}
		return stage, nil
	}); err != nil {
		return fail(err)
	}
	setStatus(model.RunStatusSemanticDedup)

	// Stage 4: clustering
	if p.cfg.EnableClusters {
		if err := trackStage("cluster", func() (model.StageResult, error) {
			clustered, outcome, err := ClusterAll(ctx, p.oracle, candidates, p.cfg.ClusterCount, p.shardSize)
			if err != nil {
				return model.StageResult{}, err
			}
			candidates = clustered

			stage := model.StageResult{Metadata: map[string]any{
				"shards":        outcome.totalShards,
				"failed_shards": outcome.failedShards,
				"unassigned":    outcome.unassigned,
			}}
			if outcome.failedShards > 0 {
				stage.Status = model.StageStatusDegraded
				stage.Error = fmt.Sprintf("%d of %d shards fell back to %s", outcome.failedShards, outcome.totalShards, model.ClusterUncategorized)
			}
			return stage, nil
		}); err != nil {
			return fail(err)
		}
		setStatus(model.RunStatusClustered)
	} else {
		result.Stages = append(result.Stages, model.StageResult{
			Name:   "cluster",
			Status: model.StageStatusSkipped,
		})
	}

	// Stage 5: selection
	var selection filterOutcome
	_ = trackStage("filter", func() (model.StageResult, error) {
		final, outcome := Filter(candidates, p.cfg.MinScore, p.cfg.TargetCount)
		candidates = final
		selection = outcome
		return model.StageResult{Metadata: map[string]any{
			"final":       len(final),
			"below_score": outcome.belowScore,
			"unscored":    outcome.unscored,
			"truncated":   outcome.truncated,
		}}, nil
	})

	result.Keywords = candidates
	result.Clusters = model.BuildClusters(candidates)
	result.Statistics = ComputeStatistics(candidates, duplicates, semDrops, scoring.unscored, selection.belowScore+selection.truncated)
	result.Elapsed = time.Since(started)
	result.ElapsedSec = result.Elapsed.Seconds()

	if p.store != nil {
		if err := p.store.UpdateRunResult(ctx, runID, result); err != nil {
			log.Warn("pipeline: failed to persist result", zap.Error(err))
		}
	}

	log.Info("pipeline: refinement complete",
		zap.Int("keywords", len(result.Keywords)),
		zap.Float64("avg_score", result.Statistics.AvgScore),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}
