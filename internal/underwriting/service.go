package underwriting

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dealdesk/server/internal/models"
)

// DealContextProvider looks up what the CRM knows about a deal. A nil
// context with a nil error means the deal is unknown.
type DealContextProvider interface {
	GetDealContext(ctx context.Context, dealID uuid.UUID) (*models.DealContext, error)
}

// Settings tunes the service
type Settings struct {
	// Baseline is used when a request omits its assumptions block
	Baseline models.Assumptions
	// MaxProjectionYears caps the exit year a request may ask for
	MaxProjectionYears int
}

// DefaultSettings returns the documented baseline and a 30 year horizon
func DefaultSettings() Settings {
	return Settings{
		Baseline:           models.DefaultAssumptions(),
		MaxProjectionYears: 30,
	}
}

// Service runs the underwriting pipeline. It holds no per-run state and is
// safe for concurrent use.
type Service struct {
	deals    DealContextProvider
	mu       sync.RWMutex
	settings Settings
	logger   *logrus.Logger
}

// NewService creates a new underwriting service. deals may be nil, in which
// case no address backfill happens.
func NewService(deals DealContextProvider, settings Settings, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if settings.MaxProjectionYears <= 0 {
		settings.MaxProjectionYears = DefaultSettings().MaxProjectionYears
	}

	return &Service{
		deals:    deals,
		settings: settings,
		logger:   logger,
	}
}

// Baseline returns the assumptions applied when a request omits them
func (s *Service) Baseline() models.Assumptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Baseline
}

// SetBaseline replaces the assumptions used for requests that omit them.
// Runs already in flight keep the baseline they started with.
func (s *Service) SetBaseline(a models.Assumptions) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ExitYear > s.settings.MaxProjectionYears {
		return fmt.Errorf("%w: exit year %d, limit %d", ErrHorizonTooLong, a.ExitYear, s.settings.MaxProjectionYears)
	}
	s.settings.Baseline = a
	return nil
}

// MaxProjectionYears is the longest exit year a request may ask for
func (s *Service) MaxProjectionYears() int {
	return s.settings.MaxProjectionYears
}

// Run executes normalize, base case, stress tests, projection and
// recommendation for a single deal.
func (s *Service) Run(ctx context.Context, req models.RunRequest) (models.RunResponse, error) {
	return s.RunWithBaseline(ctx, req, s.Baseline())
}

// RunWithBaseline is Run with the caller's snapshot of the baseline, so a
// response can be keyed on exactly the assumptions that produced it.
func (s *Service) RunWithBaseline(ctx context.Context, req models.RunRequest, baseline models.Assumptions) (models.RunResponse, error) {
	log := s.logger.WithFields(logrus.Fields{
		"deal_id":  dealIDField(req.DealID),
		"property": req.Property.Name,
		"units":    req.Property.Units,
	})
	log.Info("underwriting_started")

	if err := req.Validate(); err != nil {
		return models.RunResponse{}, err
	}

	assumptions := baseline
	if req.Assumptions != nil {
		assumptions = *req.Assumptions
	}
	if assumptions.ExitYear > s.settings.MaxProjectionYears {
		return models.RunResponse{}, fmt.Errorf("%w: exit year %d, limit %d", ErrHorizonTooLong, assumptions.ExitYear, s.settings.MaxProjectionYears)
	}

	var warnings []models.Warning
	dealCtx, warning := s.fetchDealContext(ctx, req.DealID, log)
	if warning != nil {
		warnings = append(warnings, *warning)
	}

	normalized, normalizeWarnings, err := Normalize(req, assumptions, dealCtx)
	if err != nil {
		log.WithError(err).Warn("underwriting_rejected")
		return models.RunResponse{}, err
	}
	for _, w := range normalizeWarnings {
		log.WithField("code", w.Code).Warn(w.Message)
	}
	warnings = append(warnings, normalizeWarnings...)

	baseCase := BaseCase(normalized)
	stressTests := StressTests(normalized)

	projection, irrSolved := Project(normalized)
	if !irrSolved {
		w := models.Warning{
			Code:    WarningIRRNotConverged,
			Message: "projected cash flows did not yield a solvable IRR",
		}
		log.WithField("code", w.Code).Warn(w.Message)
		warnings = append(warnings, w)
	}

	baseCase.ModeledIRR = projection.IRR
	baseCase.Classification = Classify(baseCase.Metrics, projection.IRR, true)

	recommendation := BuildRecommendation(baseCase.Metrics, projection)

	response := models.RunResponse{
		DealSummary: models.DealSummary{
			DealID:        normalized.DealID,
			PropertyName:  normalized.Property.Name,
			Address:       normalized.Property.Address,
			Units:         normalized.Property.Units,
			OccupancyRate: normalized.OccupancyRate(),
			PurchasePrice: normalized.PurchasePrice,
			LoanAmount:    normalized.LoanAmount,
			Equity:        normalized.Equity(),
			LoanToValue:   normalized.LoanToValue(),
		},
		BaseCase:       baseCase,
		StressTests:    stressTests,
		Projection:     projection,
		Recommendation: recommendation,
		Warnings:       warnings,
	}

	log.WithFields(logrus.Fields{
		"verdict": recommendation.Verdict.String(),
		"irr":     projection.IRR,
		"dscr":    baseCase.Metrics.DSCR,
	}).Info("underwriting_completed")

	return response, nil
}

// fetchDealContext never fails the run; lookup problems become a warning
func (s *Service) fetchDealContext(ctx context.Context, dealID *uuid.UUID, log *logrus.Entry) (*models.DealContext, *models.Warning) {
	if dealID == nil || s.deals == nil {
		return nil, nil
	}

	dealCtx, err := s.deals.GetDealContext(ctx, *dealID)
	if err != nil {
		log.WithError(err).Warn("underwriting_deal_context_failed")
		return nil, &models.Warning{
			Code:    WarningDealLookup,
			Message: "deal context lookup failed; address was not backfilled",
		}
	}
	if dealCtx == nil {
		log.Info("underwriting_deal_context_missing")
	}
	return dealCtx, nil
}

func dealIDField(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}
