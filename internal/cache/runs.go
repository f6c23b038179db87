package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	"dealdesk/server/internal/models"
)

const runKeyPrefix = "underwriting:run:"

// Fingerprint identifies a request by the inputs the engine actually sees.
// The effective assumptions are hashed, so a request that omits them and
// one that spells out the same baseline share a fingerprint.
func Fingerprint(req models.RunRequest, baseline models.Assumptions) (string, error) {
	if req.Assumptions == nil {
		req.Assumptions = &baseline
	}
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// RunCache stores run responses by request fingerprint
type RunCache struct {
	cache  Cache
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRunCache(cache Cache, ttl time.Duration, logger *logrus.Logger) *RunCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RunCache{cache: cache, ttl: ttl, logger: logger}
}

// Get returns the cached response for fingerprint. Undecodable entries are
// treated as misses.
func (c *RunCache) Get(ctx context.Context, fingerprint string) (*models.RunResponse, bool) {
	data, ok := c.cache.Get(ctx, runKeyPrefix+fingerprint)
	if !ok {
		return nil, false
	}
	var resp models.RunResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.WithError(err).WithField("fingerprint", fingerprint).Warn("Discarding unreadable cached run")
		return nil, false
	}
	return &resp, true
}

// Put caches resp. Failures are logged, never returned.
func (c *RunCache) Put(ctx context.Context, fingerprint string, resp models.RunResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode run for cache")
		return
	}
	if err := c.cache.Set(ctx, runKeyPrefix+fingerprint, data, c.ttl); err != nil {
		c.logger.WithError(err).WithField("fingerprint", fingerprint).Warn("Failed to cache run")
	}
}

// Backend names the store behind the cache
func (c *RunCache) Backend() string {
	return c.cache.Backend()
}

func (c *RunCache) Ping(ctx context.Context) error {
	return c.cache.Ping(ctx)
}
