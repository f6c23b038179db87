package underwriting

import (
	"context"
	"sync"

	"dealdesk/server/internal/models"
)

// BatchResult pairs a run response with its error, in request order
type BatchResult struct {
	Response *models.RunResponse
	Err      error
}

// RunBatch runs each request against baseline on at most workers
// goroutines. Results keep the order of reqs. Requests not yet started when
// ctx is done report ctx.Err().
func (s *Service) RunBatch(ctx context.Context, reqs []models.RunRequest, baseline models.Assumptions, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(reqs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range reqs {
		if err := ctx.Err(); err != nil {
			results[i] = BatchResult{Err: err}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = BatchResult{Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			resp, err := s.RunWithBaseline(ctx, reqs[i], baseline)
			if err != nil {
				results[i] = BatchResult{Err: err}
				return
			}
			results[i] = BatchResult{Response: &resp}
		}(i)
	}

	wg.Wait()
	return results
}
