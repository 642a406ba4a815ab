// Package pipeline runs the extract, clean, transform, load and analyze
// stages in order. A stage failure aborts the run; later stages stay
// pending so a partially processed dataset is never loaded.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the overall lifecycle status of a run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunReport summarizes one pipeline execution.
type RunReport struct {
	RunID     string        `json:"run_id"`
	Status    RunStatus     `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Stages    []*StageState `json:"stages"`
}

// Runner executes stages sequentially.
type Runner struct {
	stages []Stage
	logger *slog.Logger
}

// NewRunner creates a runner over the given stages, executed in order.
func NewRunner(logger *slog.Logger, stages ...Stage) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{stages: stages, logger: logger}
}

// Run executes every stage against the shared state. The returned report
// covers all stages even when the run aborts early.
func (r *Runner) Run(ctx context.Context, state *RunState) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.New().String(),
		Status:    RunStatusRunning,
		StartTime: time.Now(),
		Stages:    make([]*StageState, 0, len(r.stages)),
	}
	logger := r.logger.With(slog.String("run_id", report.RunID))

	stageStates := make([]*StageState, len(r.stages))
	for i, stage := range r.stages {
		stageStates[i] = NewStageState(stage.ID(), stage.Name())
		report.Stages = append(report.Stages, stageStates[i])
	}

	logger.InfoContext(ctx, "pipeline run started",
		slog.Int("stages", len(r.stages)),
		slog.String("input", state.InputFile))

	for i, stage := range r.stages {
		stageState := stageStates[i]

		if err := ctx.Err(); err != nil {
			stageState.Fail(err)
			return r.fail(ctx, logger, report, stage, err)
		}
		if err := stage.Validate(state); err != nil {
			err = fmt.Errorf("stage %s validation failed: %w", stage.ID(), err)
			stageState.Fail(err)
			return r.fail(ctx, logger, report, stage, err)
		}

		stageState.Start()
		logger.InfoContext(ctx, "stage started", slog.String("stage", stage.ID()))

		if err := stage.Execute(ctx, state); err != nil {
			err = fmt.Errorf("stage %s failed: %w", stage.ID(), err)
			stageState.Fail(err)
			return r.fail(ctx, logger, report, stage, err)
		}

		stageState.Complete(stageMessage(stage.ID(), state))
		logger.InfoContext(ctx, "stage completed",
			slog.String("stage", stage.ID()),
			slog.Duration("duration", stageState.Duration()))
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Status = RunStatusCompleted
	logger.InfoContext(ctx, "pipeline run completed",
		slog.Duration("duration", report.Duration))
	return report, nil
}

func (r *Runner) fail(ctx context.Context, logger *slog.Logger, report *RunReport, stage Stage, err error) (*RunReport, error) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Status = RunStatusFailed
	logger.ErrorContext(ctx, "pipeline run failed",
		slog.String("stage", stage.ID()),
		slog.String("error", err.Error()))
	return report, err
}

// stageMessage returns a short completion note for the report.
func stageMessage(stageID string, state *RunState) string {
	switch stageID {
	case StageExtract:
		return fmt.Sprintf("extracted %d rows", len(state.Raw))
	case StageClean:
		rep := state.CleanReport
		return fmt.Sprintf("cleaned %d rows to %d (filled %d, deduped %d, repaired %d, dropped %d)",
			rep.InputRows, rep.OutputRows, rep.MissingFilled, rep.DuplicatesRemoved,
			rep.InconsistentRepaired, rep.NegativesRemoved)
	case StageTransform:
		return fmt.Sprintf("enriched %d rows across %d products", len(state.Enriched), len(state.Summaries.Products))
	case StageLoad:
		return fmt.Sprintf("loaded %d rows", len(state.Enriched))
	case StageAnalyze:
		return "report and charts written"
	default:
		return ""
	}
}
