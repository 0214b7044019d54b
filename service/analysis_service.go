package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinel-portal/models"
	"sentinel-portal/storage"
)

var (
	ErrStagingFailed     = errors.New("failed to stage statement")
	ErrUpstreamFailed    = errors.New("decision service call failed")
	ErrRunNotFound       = errors.New("analysis run not found")
	ErrInvalidTransition = errors.New("invalid run transition")
)

// AnalysisService drives one statement from upload to decision view
type AnalysisService struct {
	decisions DecisionClient
	storage   storage.Storage
	tracker   *RunTracker
	logger    *zap.Logger
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// AnalysisWithDecisionClient sets the decision service client
func AnalysisWithDecisionClient(c DecisionClient) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.decisions = c
	}
}

// AnalysisWithStorage sets the staging storage
func AnalysisWithStorage(st storage.Storage) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.storage = st
	}
}

// AnalysisWithRunTracker sets the run tracker
func AnalysisWithRunTracker(t *RunTracker) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.tracker = t
	}
}

// AnalysisWithLogger sets the logger
func AnalysisWithLogger(l *zap.Logger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.logger = l
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = NewRunTracker(defaultMaxTrackedRuns)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// AnalyzeRequest represents an uploaded statement
type AnalyzeRequest struct {
	Filename  string
	Statement io.Reader
}

// AnalyzeResult represents the outcome of one analysis
type AnalyzeResult struct {
	Run      models.Run
	Decision *models.DecisionResponse
	View     models.DecisionView
}

// Analyze stages the statement, asks the decision service for a verdict and
// builds the view. The staged copy is removed whatever the outcome.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if s.decisions == nil {
		return nil, errors.New("decision client not set")
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}

	run, err := s.tracker.Start(req.Filename)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("run_id", run.ID.String()), zap.String("filename", req.Filename))
	log.Info("analysis started")

	decision, err := s.decide(ctx, run.ID, req)
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		if failed, ferr := s.tracker.Fail(run.ID, err.Error()); ferr == nil {
			run = failed
		} else {
			log.Warn("failed to record run failure", zap.Error(ferr))
		}
		return &AnalyzeResult{Run: run, View: BuildDecisionView(nil)}, err
	}

	if done, derr := s.tracker.Succeed(run.ID); derr == nil {
		run = done
	} else {
		log.Warn("failed to record run completion", zap.Error(derr))
	}
	log.Info("analysis finished", zap.String("decision", string(decision.FinalDecision)))

	return &AnalyzeResult{
		Run:      run,
		Decision: decision,
		View:     BuildDecisionView(decision),
	}, nil
}

func (s *AnalysisService) decide(ctx context.Context, runID uuid.UUID, req AnalyzeRequest) (*models.DecisionResponse, error) {
	key, err := s.storage.Stage(ctx, runID, req.Filename, req.Statement)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStagingFailed, err)
	}
	defer func() {
		// the request may already be cancelled; cleanup must still happen
		if err := s.storage.Remove(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to remove staged statement", zap.String("key", key), zap.Error(err))
		}
	}()

	staged, err := s.storage.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStagingFailed, err)
	}
	defer staged.Close()

	decision, err := s.decisions.Analyze(ctx, req.Filename, staged)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFailed, err)
	}
	if decision == nil {
		return nil, fmt.Errorf("%w: empty response", ErrUpstreamFailed)
	}
	return decision, nil
}

// GetRunRequest represents a request to get run status
type GetRunRequest struct {
	RunID uuid.UUID
}

// GetRunResult represents the result of getting run status
type GetRunResult struct {
	Run models.Run
}

// GetRun retrieves the status of an analysis run
func (s *AnalysisService) GetRun(ctx context.Context, req GetRunRequest) (*GetRunResult, error) {
	run, err := s.tracker.Get(req.RunID)
	if err != nil {
		return nil, err
	}
	return &GetRunResult{Run: run}, nil
}
