package leasecost

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/elC0mpa/lease-cost/model"
	"github.com/elC0mpa/lease-cost/service"
	"github.com/elC0mpa/lease-cost/service/logger"
)

var _ service.LeaseCostService = (*leaseCostService)(nil)

func NewService(client service.CostQueryService, opts ...Option) *leaseCostService {
	s := &leaseCostService{
		client:    client,
		splitter:  NewSplitter(time.Now),
		logger:    logger.Nop(),
		batchSize: MaxBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "leasecost")
	return s
}

// GetCostForLeases totals each account's cost from its lease start up to end.
// Batches are queried one after another and any query error aborts the call.
func (s *leaseCostService) GetCostForLeases(ctx context.Context, leases []model.LeaseWindow, end time.Time, granularity model.Granularity) (*model.CostReport, error) {
	if granularity != model.GranularityDaily && granularity != model.GranularityHourly {
		return nil, fmt.Errorf("lease costs: %w: %q", ErrUnsupportedGranularity, granularity)
	}

	sorted := sortLeases(leases)
	report := model.NewCostReport()

	batchIndex := 0
	for batch := range Batch(sorted, s.batchSize) {
		earliest := batch[0].LeaseStart

		spans, err := s.splitter.Plan(earliest, end, granularity)
		if err != nil {
			return nil, fmt.Errorf("lease costs batch %d: %w", batchIndex, err)
		}

		batchReport, err := s.queryBatch(ctx, batch, spans, nil)
		if err != nil {
			return nil, fmt.Errorf("lease costs batch %d: %w", batchIndex, err)
		}
		report.Merge(batchReport)
		batchIndex++
	}

	s.logger.Info("lease costs computed",
		"leases", len(sorted), "batches", batchIndex, "granularity", granularity, "total", report.TotalCost())
	return report, nil
}

// GetCostForRange totals cost over a fixed [start, end) at daily granularity,
// still excluding days before each account's lease began. tag may be nil.
func (s *leaseCostService) GetCostForRange(ctx context.Context, start, end time.Time, leases []model.LeaseWindow, tag *model.TagFilter) (*model.CostReport, error) {
	span := Span{
		Granularity: model.GranularityDaily,
		Range:       model.TimeRange{Start: start.UTC(), End: end.UTC()},
	}

	sorted := sortLeases(leases)
	report := model.NewCostReport()

	batchIndex := 0
	for batch := range Batch(sorted, s.batchSize) {
		batchReport, err := s.queryBatch(ctx, batch, []Span{span}, tag)
		if err != nil {
			return nil, fmt.Errorf("range costs batch %d: %w", batchIndex, err)
		}
		report.Merge(batchReport)
		batchIndex++
	}

	s.logger.Info("range costs computed",
		"leases", len(sorted), "batches", batchIndex, "start", start, "end", end, "total", report.TotalCost())
	return report, nil
}

func (s *leaseCostService) queryBatch(ctx context.Context, batch []model.LeaseWindow, spans []Span, tag *model.TagFilter) (*model.CostReport, error) {
	leaseStarts := make(map[string]time.Time, len(batch))
	accountIDs := make([]string, 0, len(batch))
	for _, lease := range batch {
		leaseStarts[lease.AccountID] = lease.LeaseStart
		accountIDs = append(accountIDs, lease.AccountID)
	}

	report := model.NewCostReport()
	for _, span := range spans {
		query := span.Query(accountIDs, tag)

		buckets, err := s.client.QueryGroupedCost(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("query %s %s..%s: %w",
				query.Granularity, query.TimePeriod.Start, query.TimePeriod.End, err)
		}
		if len(buckets) == 0 {
			s.logger.Warn("no cost results for span",
				"granularity", query.Granularity, "start", query.TimePeriod.Start, "end", query.TimePeriod.End,
				"accounts", len(accountIDs))
			continue
		}

		report.Merge(s.reduceBuckets(buckets, leaseStarts, span.Granularity))
	}
	return report, nil
}

// reduceBuckets keeps a group's amount only when the account's lease start,
// aligned to the bucket's unit, is not after the bucket start
func (s *leaseCostService) reduceBuckets(buckets []model.CostResultBucket, leaseStarts map[string]time.Time, granularity model.Granularity) *model.CostReport {
	report := model.NewCostReport()
	for _, bucket := range buckets {
		bucketStart, err := ParseBucketStart(bucket.BucketStart)
		if err != nil {
			s.logger.Warn("skipping bucket with unreadable start", "bucket_start", bucket.BucketStart, "error", err)
			continue
		}

		for _, group := range bucket.Groups {
			leaseStart, ok := leaseStarts[group.AccountID]
			if !ok {
				continue
			}
			if Align(leaseStart, granularity).After(bucketStart) {
				continue
			}
			report.AddCost(group.AccountID, s.parseAmount(group))
		}
	}
	return report
}

func (s *leaseCostService) parseAmount(group model.AccountCost) float64 {
	amount, err := strconv.ParseFloat(group.Amount, 64)
	if err != nil {
		s.logger.Debug("treating unparsable amount as zero", "account", group.AccountID, "amount", group.Amount)
		return 0
	}
	return amount
}

// sortLeases orders leases by start and keeps the earliest window per account
func sortLeases(leases []model.LeaseWindow) []model.LeaseWindow {
	sorted := make([]model.LeaseWindow, 0, len(leases))
	for _, lease := range leases {
		lease.LeaseStart = lease.LeaseStart.UTC()
		sorted = append(sorted, lease)
	}
	slices.SortStableFunc(sorted, func(a, b model.LeaseWindow) int {
		return a.LeaseStart.Compare(b.LeaseStart)
	})

	seen := make(map[string]struct{}, len(sorted))
	return slices.DeleteFunc(sorted, func(lease model.LeaseWindow) bool {
		if _, dup := seen[lease.AccountID]; dup {
			return true
		}
		seen[lease.AccountID] = struct{}{}
		return false
	})
}

func dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
