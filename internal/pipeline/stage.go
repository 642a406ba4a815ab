package pipeline

import (
	"context"
	"sync"
	"time"

	"salespipe/internal/dataprocessing"
	"salespipe/pkg/contracts/domain"
)

// RunState carries the data flowing between stages of one pipeline run.
// Each stage reads the fields of its predecessors and fills in its own.
type RunState struct {
	InputFile string

	Raw         []domain.RawOrder
	Cleaned     []domain.OrderRecord
	CleanReport dataprocessing.CleanReport
	Enriched    []domain.EnrichedOrder
	Summaries   domain.SummarySet
	Stats       domain.GlobalStats
}

// Stage is a single step of the pipeline.
type Stage interface {
	// ID returns the unique identifier for this stage.
	ID() string

	// Name returns the human-readable name for this stage.
	Name() string

	// Validate checks whether the stage can run against the current state.
	Validate(state *RunState) error

	// Execute runs the stage, mutating the run state.
	Execute(ctx context.Context, state *RunState) error
}

// StageStatus is the lifecycle status of a stage.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// StageState is the runtime state of one stage within a run.
type StageState struct {
	mu        sync.RWMutex
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    StageStatus `json:"status"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Message   string      `json:"message,omitempty"`
	Err       error       `json:"-"`
}

// NewStageState creates a pending stage state.
func NewStageState(id, name string) *StageState {
	return &StageState{ID: id, Name: name, Status: StageStatusPending}
}

// Start marks the stage active.
func (s *StageState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.StartTime = &now
	s.Status = StageStatusActive
}

// Complete marks the stage completed with an optional summary message.
func (s *StageState) Complete(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusCompleted
	s.Message = message
}

// Fail marks the stage failed with the given error.
func (s *StageState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusFailed
	s.Err = err
	s.Message = err.Error()
}

// CurrentStatus returns the stage status under the read lock.
func (s *StageState) CurrentStatus() StageStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns how long the stage ran, or zero if it never started.
func (s *StageState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.StartTime == nil || s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(*s.StartTime)
}
