package leasecost

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/elC0mpa/lease-cost/model"
)

type batchResult struct {
	accountIDs []string
	costs      model.DailyCosts
	err        error
}

// GetDailyCostsByAccount fetches per-day cost for every account. Batches are
// queried concurrently by maxConcurrency workers, with at most maxConcurrency
// query starts in any rolling one-second window.
// A failed batch does not fail the call: its accounts are left out of Costs
// and listed in FailedBatches.
func (s *leaseCostService) GetDailyCostsByAccount(ctx context.Context, accountIDs []string, start, end time.Time, maxConcurrency int) *model.DailyCostResult {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	span := Span{
		Granularity: model.GranularityDaily,
		Range: model.TimeRange{
			Start: start.UTC(),
			End:   NextPeriodStart(end, model.GranularityDaily),
		},
	}

	// Starts are spaced 1/maxConcurrency apart so that no rolling second sees
	// more than maxConcurrency of them
	limiter := rate.NewLimiter(rate.Every(time.Second/time.Duration(maxConcurrency)), 1)
	batches := make(chan []string)
	results := make(chan batchResult)

	var g errgroup.Group
	g.Go(func() error {
		defer close(batches)
		for batch := range Batch(dedupe(accountIDs), s.batchSize) {
			batches <- batch
		}
		return nil
	})
	for range maxConcurrency {
		g.Go(func() error {
			for batch := range batches {
				results <- s.fetchDailyBatch(ctx, limiter, span, batch)
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	out := &model.DailyCostResult{Costs: model.DailyCosts{}}
	for res := range results {
		if res.err != nil {
			s.logger.Error("dropping failed daily cost batch", "accounts", len(res.accountIDs), "error", res.err)
			out.FailedBatches = append(out.FailedBatches, model.FailedBatch{AccountIDs: res.accountIDs, Err: res.err})
			continue
		}
		out.Costs.Merge(res.costs)
	}

	s.logger.Info("daily costs fetched",
		"accounts", len(out.Costs), "failed_batches", len(out.FailedBatches), "max_concurrency", maxConcurrency)
	return out
}

func (s *leaseCostService) fetchDailyBatch(ctx context.Context, limiter *rate.Limiter, span Span, accountIDs []string) batchResult {
	res := batchResult{accountIDs: accountIDs}

	if err := limiter.Wait(ctx); err != nil {
		res.err = fmt.Errorf("wait for query slot: %w", err)
		return res
	}

	query := span.Query(accountIDs, nil)
	buckets, err := s.client.QueryGroupedCost(ctx, query)
	if err != nil {
		res.err = fmt.Errorf("query daily %s..%s: %w", query.TimePeriod.Start, query.TimePeriod.End, err)
		return res
	}
	if len(buckets) == 0 {
		s.logger.Warn("no daily cost results for batch", "accounts", len(accountIDs))
	}

	res.costs = model.DailyCosts{}
	for _, bucket := range buckets {
		for _, group := range bucket.Groups {
			res.costs.Add(group.AccountID, bucket.BucketStart, s.parseAmount(group))
		}
	}
	return res
}
