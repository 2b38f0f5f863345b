// Package analyze orchestrates the document extraction pipeline: resolve and
// decode the source, run the summary and deep-analysis LLM stages, merge both
// outputs into one DocumentAnalysis, and persist the extracted material specs.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nattapong-dev/tor-analyzer/internal/entity"
	"github.com/nattapong-dev/tor-analyzer/internal/llm"
	"github.com/nattapong-dev/tor-analyzer/internal/repository"
	"github.com/nattapong-dev/tor-analyzer/internal/source"
)

// Config for the orchestrator.
type Config struct {
	StageTimeout time.Duration // per-LLM-stage; default 90s
	SaveTimeout  time.Duration // persistence write; default 15s
}

// Analyzer runs the two-stage extraction. All collaborators are injected at
// construction; there is no ambient registry.
type Analyzer struct {
	cfg       Config
	resolver  *source.Resolver
	completer llm.Completer
	materials repository.MaterialRepository
	logger    *slog.Logger
}

func NewAnalyzer(cfg Config, resolver *source.Resolver, completer llm.Completer, materials repository.MaterialRepository, logger *slog.Logger) *Analyzer {
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = 90 * time.Second
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		cfg:       cfg,
		resolver:  resolver,
		completer: completer,
		materials: materials,
		logger:    logger,
	}
}

// Analyze resolves src to text, runs both extraction stages concurrently,
// merges their outputs, and persists the extracted material specs under a
// freshly generated analysis id.
//
// Errors: *DecodeFailedError when the source is unreadable (no LLM call is
// made), *ExtractionError when a stage fails (nothing is persisted), and
// *PersistenceError when only the save failed. In that last case the
// returned analysis is still valid, with MaterialsSaved set to false so the
// caller can retry the save alone.
func (a *Analyzer) Analyze(ctx context.Context, src entity.DocumentSource) (*entity.DocumentAnalysis, error) {
	start := time.Now()

	resolved, err := a.resolver.Resolve(ctx, src)
	if err != nil {
		a.logger.Error("analyze.decode.failed", "source_type", string(src.SourceType), "error", err)
		return nil, &DecodeFailedError{Err: err}
	}
	// An empty decode (blank scan, empty page) is a legitimate input; the
	// stages run anyway and report whatever they can.
	a.logger.Info("analyze.decode.ok",
		"source_type", string(src.SourceType),
		"format", string(resolved.Format),
		"text_len", len(resolved.Text),
	)

	// The stages share no data; run them concurrently and join before merge.
	var summary entity.DocumentSummary
	var detail entity.DetailedAnalysis

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		out, err := a.runStage(gctx, StageSummary, llm.BuildSummaryPrompt(resolved.Text), llm.BuildSummaryJSONSchema())
		if err != nil {
			return err
		}
		if err := json.Unmarshal(out, &summary); err != nil {
			return &ExtractionError{Stage: StageSummary, Err: fmt.Errorf("unmarshal: %w", err)}
		}
		return nil
	})
	eg.Go(func() error {
		out, err := a.runStage(gctx, StageDeep, llm.BuildDeepAnalysisPrompt(resolved.Text), llm.BuildDeepAnalysisJSONSchema())
		if err != nil {
			return err
		}
		if err := json.Unmarshal(out, &detail); err != nil {
			return &ExtractionError{Stage: StageDeep, Err: fmt.Errorf("unmarshal: %w", err)}
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	analysis := &entity.DocumentAnalysis{
		DocumentSummary:  summary,
		DetailedAnalysis: detail,
		TORAnalysisID:    NewAnalysisID(),
		CreatedAt:        time.Now().UTC(),
		MaterialsSaved:   true,
	}

	if len(detail.ExtractedMaterialSpecifications) > 0 {
		saveCtx, cancel := context.WithTimeout(ctx, a.cfg.SaveTimeout)
		defer cancel()
		n, err := a.materials.SaveSpecifications(saveCtx, analysis.TORAnalysisID,
			repository.SaveOptions{}, detail.ExtractedMaterialSpecifications)
		if err != nil {
			analysis.MaterialsSaved = false
			perr := &PersistenceError{TORAnalysisID: analysis.TORAnalysisID, Err: err}
			a.logger.Error("analyze.persist.failed",
				"tor_analysis_id", analysis.TORAnalysisID, "error", err)
			// the analysis itself is valid; the caller may retry the save
			return analysis, perr
		}
		a.logger.Info("analyze.persist.ok",
			"tor_analysis_id", analysis.TORAnalysisID, "rows", n)
	}

	a.logger.Info("analyze.ok",
		"tor_analysis_id", analysis.TORAnalysisID,
		"project_name", analysis.ProjectName,
		"specs", len(detail.ExtractedMaterialSpecifications),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return analysis, nil
}

func (a *Analyzer) runStage(ctx context.Context, stage, prompt string, schema map[string]any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.StageTimeout)
	defer cancel()

	start := time.Now()
	out, err := a.completer.Complete(ctx, prompt, schema)
	if err != nil {
		a.logger.Error("analyze.stage.failed",
			"stage", stage, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, &ExtractionError{Stage: stage, Err: err}
	}
	a.logger.Debug("analyze.stage.ok",
		"stage", stage, "bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// GetMaterialSpecsByAnalysis returns the stored specs for one analysis run,
// in insertion order. Zero matches is an empty slice, not an error.
func (a *Analyzer) GetMaterialSpecsByAnalysis(ctx context.Context, torAnalysisID string, limit int) ([]entity.StoredMaterialSpec, error) {
	return a.materials.GetByAnalysisID(ctx, torAnalysisID, limit)
}

// SearchMaterialSpecs finds historical specs by item-name substring,
// optionally scoped to one agency, most recent first.
func (a *Analyzer) SearchMaterialSpecs(ctx context.Context, itemName, agencyName string, limit int) ([]entity.StoredMaterialSpec, error) {
	return a.materials.SearchByItemName(ctx, itemName, agencyName, limit)
}

// NewAnalysisID generates a process-unique analysis id of the form
// tor_<unixmilli>_<rand>. The random component makes ids collision-free
// across concurrent requests.
func NewAnalysisID() string {
	frag := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("tor_%d_%s", time.Now().UnixMilli(), frag)
}
