package service

import (
	"context"
	"time"

	"github.com/elC0mpa/lease-cost/model"
)

// IdentityService provides cloud account identity information
type IdentityService interface {
	GetAccountInfo(ctx context.Context) (*model.AccountInfo, error)
}

// CostQueryService issues one grouped-cost query and returns its time buckets.
// Retries, pagination and credentials are its concern, not the caller's.
// An empty slice with a nil error means no billed usage in the window.
type CostQueryService interface {
	QueryGroupedCost(ctx context.Context, query model.CostQuery) ([]model.CostResultBucket, error)
}

// LeaseCostService aggregates cost for leased accounts
type LeaseCostService interface {
	GetCostForLeases(ctx context.Context, leases []model.LeaseWindow, end time.Time, granularity model.Granularity) (*model.CostReport, error)
	GetCostForRange(ctx context.Context, start, end time.Time, leases []model.LeaseWindow, tag *model.TagFilter) (*model.CostReport, error)
	GetDailyCostsByAccount(ctx context.Context, accountIDs []string, start, end time.Time, maxConcurrency int) *model.DailyCostResult
}
