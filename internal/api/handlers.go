package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dealdesk/server/config"
	"dealdesk/server/internal/cache"
	"dealdesk/server/internal/models"
	"dealdesk/server/internal/underwriting"
)

const (
	runIDHeader = "X-Run-ID"
	cacheHeader = "X-Cache"
)

// RunStore reads persisted run audit records
type RunStore interface {
	GetRun(ctx context.Context, id uuid.UUID) (*models.UnderwritingRun, error)
	ListRuns(ctx context.Context, dealID *uuid.UUID, limit int) ([]models.UnderwritingRun, error)
	Ping(ctx context.Context) error
}

// RunRecorder persists run audit records in the background
type RunRecorder interface {
	Record(runs ...*models.UnderwritingRun) error
}

// Dependencies is everything the handlers talk to. Cache, Recorder, Store
// and Limiter may be nil; the matching features are then skipped or report
// 503.
type Dependencies struct {
	Service  *underwriting.Service
	Profiles *config.ProfileStore
	Cache    *cache.RunCache
	Recorder RunRecorder
	Store    RunStore
	Limiter  *RateLimiter

	BatchWorkers int
	BatchMax     int
}

type Handler struct {
	service      *underwriting.Service
	profiles     *config.ProfileStore
	cache        *cache.RunCache
	recorder     RunRecorder
	store        RunStore
	limiter      *RateLimiter
	batchWorkers int
	batchMax     int
	logger       *logrus.Logger
}

type BatchRequest struct {
	Runs []models.RunRequest `json:"runs"`
}

type BatchItem struct {
	RunID    *uuid.UUID          `json:"run_id,omitempty"`
	Response *models.RunResponse `json:"response,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// runRecord renders the stored request and response as JSON, not strings
type runRecord struct {
	models.UnderwritingRun
	Request  json.RawMessage `json:"request"`
	Response json.RawMessage `json:"response"`
}

func NewHandler(deps Dependencies, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if deps.Profiles == nil {
		deps.Profiles, _ = config.LoadAssumptionProfile("")
	}
	if deps.BatchWorkers < 1 {
		deps.BatchWorkers = 1
	}
	if deps.BatchMax < 1 {
		deps.BatchMax = 25
	}

	return &Handler{
		service:      deps.Service,
		profiles:     deps.Profiles,
		cache:        deps.Cache,
		recorder:     deps.Recorder,
		store:        deps.Store,
		limiter:      deps.Limiter,
		batchWorkers: deps.BatchWorkers,
		batchMax:     deps.BatchMax,
		logger:       logger,
	}
}

// RunUnderwriting runs the full pipeline for one deal. The run id is
// returned in a header so the body stays identical for identical input.
func (h *Handler) RunUnderwriting(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	baseline := h.service.Baseline()
	fingerprint, err := cache.Fingerprint(req, baseline)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fingerprint run request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run underwriting"})
		return
	}

	resp, hit := h.cachedRun(c.Request.Context(), fingerprint)
	if !hit {
		computed, err := h.service.RunWithBaseline(c.Request.Context(), req, baseline)
		if err != nil {
			h.writeRunError(c, err)
			return
		}
		resp = &computed
		if h.cache != nil {
			h.cache.Put(c.Request.Context(), fingerprint, computed)
		}
	}

	runID := h.record(fingerprint, req, *resp)
	c.Header(runIDHeader, runID.String())
	if hit {
		c.Header(cacheHeader, "HIT")
	} else {
		c.Header(cacheHeader, "MISS")
	}
	c.JSON(http.StatusOK, resp)
}

// RunBatch underwrites several deals. Each item succeeds or fails on its
// own and results keep request order. Every item costs one run against the
// client's rate limit; a batch the remaining budget cannot cover is refused
// whole.
func (h *Handler) RunBatch(c *gin.Context) {
	var body BatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body.Runs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "runs must not be empty"})
		return
	}
	if len(body.Runs) > h.batchMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many runs in batch, limit is " + strconv.Itoa(h.batchMax)})
		return
	}
	if h.limiter != nil && !h.limiter.AllowN(c.ClientIP(), len(body.Runs)) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	baseline := h.service.Baseline()
	results := h.service.RunBatch(c.Request.Context(), body.Runs, baseline, h.batchWorkers)

	items := make([]BatchItem, len(results))
	failed := 0
	for i, result := range results {
		if result.Err != nil {
			failed++
			items[i] = BatchItem{Error: runErrorMessage(result.Err)}
			if !underwriting.IsValidationError(result.Err) {
				h.logger.WithError(result.Err).WithField("index", i).Error("Batch run failed")
			}
			continue
		}

		fingerprint, err := cache.Fingerprint(body.Runs[i], baseline)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to fingerprint batch run")
		}
		runID := h.record(fingerprint, body.Runs[i], *result.Response)
		items[i] = BatchItem{RunID: &runID, Response: result.Response}
	}

	h.logger.WithFields(logrus.Fields{
		"runs":   len(items),
		"failed": failed,
	}).Info("Batch underwriting completed")

	c.JSON(http.StatusOK, gin.H{"results": items})
}

// GetRun returns one persisted run
func (h *Handler) GetRun(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run history is not available"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run id"})
		return
	}

	run, err := h.store.GetRun(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	c.JSON(http.StatusOK, toRunRecord(*run))
}

// ListRuns returns recent runs, optionally for a single deal
func (h *Handler) ListRuns(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run history is not available"})
		return
	}

	var dealID *uuid.UUID
	if raw := c.Query("deal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal_id"})
			return
		}
		dealID = &id
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(c.Request.Context(), dealID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}

	records := make([]runRecord, len(runs))
	for i, run := range runs {
		records[i] = toRunRecord(run)
	}
	c.JSON(http.StatusOK, gin.H{"runs": records})
}

// Health reports database and cache status
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok", "time": time.Now().UTC()}

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			h.logger.WithError(err).Warn("Database health check failed")
			body["database"] = "unavailable"
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			body["database"] = "ok"
		}
	}

	if h.cache != nil {
		cacheStatus := gin.H{"backend": h.cache.Backend(), "status": "ok"}
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus["status"] = "unavailable"
		}
		body["cache"] = cacheStatus
	}

	c.JSON(status, body)
}

func (h *Handler) cachedRun(ctx context.Context, fingerprint string) (*models.RunResponse, bool) {
	if h.cache == nil {
		return nil, false
	}
	return h.cache.Get(ctx, fingerprint)
}

// record queues the audit record and returns its id. Persistence failures
// never fail the request.
func (h *Handler) record(fingerprint string, req models.RunRequest, resp models.RunResponse) uuid.UUID {
	id := uuid.New()
	if h.recorder == nil {
		return id
	}

	run, err := models.NewUnderwritingRun(id, fingerprint, req, resp)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to build run record")
		return id
	}
	if err := h.recorder.Record(run); err != nil {
		h.logger.WithError(err).WithField("run_id", id).Warn("Failed to queue run record")
	}
	return id
}

func (h *Handler) writeRunError(c *gin.Context, err error) {
	if underwriting.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	h.logger.WithError(err).Error("Failed to run underwriting")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run underwriting"})
}

func runErrorMessage(err error) string {
	if underwriting.IsValidationError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err.Error()
	}
	return "Failed to run underwriting"
}

func toRunRecord(run models.UnderwritingRun) runRecord {
	record := runRecord{UnderwritingRun: run}
	if json.Valid([]byte(run.Request)) {
		record.Request = json.RawMessage(run.Request)
	}
	if json.Valid([]byte(run.Response)) {
		record.Response = json.RawMessage(run.Response)
	}
	return record
}
