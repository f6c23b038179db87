package processor

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"dealdesk/server/config"
	"dealdesk/server/internal/database"
	"dealdesk/server/internal/models"
	"dealdesk/server/internal/queue"
)

// Transactor is the part of *gorm.DB the processor needs
type Transactor interface {
	Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchProcessor writes run audit batches from the queue to the database
type BatchProcessor struct {
	db     Transactor
	logger *logrus.Logger
	config *config.Config
	queue  *queue.RunQueue
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.RunQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		config: config,
		logger: logger,
	}
}

// Start subscribes to the queue and starts ProcessorCount workers
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
	p.queue.Start(p.config.BatchProcessing.ProcessorCount)
}

// Stop closes the queue and waits for buffered batches to be written
func (p *BatchProcessor) Stop() {
	p.queue.Close()
}

// Record enqueues runs for persistence
func (p *BatchProcessor) Record(runs ...*models.UnderwritingRun) error {
	return p.queue.Push(runs)
}

// processBatch handles a single batch of runs with transaction and retry logic
func (p *BatchProcessor) processBatch(batch []*models.UnderwritingRun) error {
	var err error
	for attempt := 0; attempt <= p.config.BatchProcessing.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, p.config.BatchProcessing.MaxRetries)
			time.Sleep(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.SaveRuns(tx, batch); err != nil {
				return fmt.Errorf("failed to save run batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d runs", len(batch))
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
		if !retryable(err) {
			return fmt.Errorf("failed to process batch, not retrying: %w", err)
		}
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", p.config.BatchProcessing.MaxRetries+1, err)
}

// retryable reports whether a failed write may succeed later. SQLite
// constraint and schema errors never will.
func retryable(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return true
	}
	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr, sqlite3.ErrFull, sqlite3.ErrProtocol:
		return true
	default:
		return false
	}
}
