package model

import (
	"maps"
	"slices"
	"time"
)

// Granularity is the time-bucket resolution of a cost query.
// Values match the Cost Explorer enum so they can be passed through unchanged.
type Granularity string

const (
	GranularityHourly  Granularity = "HOURLY"
	GranularityDaily   Granularity = "DAILY"
	GranularityMonthly Granularity = "MONTHLY"
)

// DateInterval is a time period already rendered in the billing API's string format
type DateInterval struct {
	Start string
	End   string
}

// TimeRange is a half-open interval [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// LeaseWindow pairs an account with the moment its lease began
type LeaseWindow struct {
	AccountID  string    `yaml:"account_id" json:"account_id"`
	LeaseStart time.Time `yaml:"lease_start" json:"lease_start"`
}

// TagFilter restricts a query to resources whose tag Key equals one of Values
type TagFilter struct {
	Key    string
	Values []string
}

// CostQuery is a single grouped-cost request against the billing API
type CostQuery struct {
	TimePeriod  DateInterval
	Granularity Granularity
	AccountIDs  []string
	Tag         *TagFilter
}

// AccountCost is one group inside a result bucket. Amount is kept as the
// decimal string the API returned.
type AccountCost struct {
	AccountID string
	Amount    string
}

// CostResultBucket is one time bucket of a grouped-cost response
type CostResultBucket struct {
	BucketStart string
	Groups      []AccountCost
}

// CostReport accumulates cost per account. The zero value is ready to use.
// A missing account has zero cost.
type CostReport struct {
	costs map[string]float64
}

// NewCostReport returns an empty report
func NewCostReport() *CostReport {
	return &CostReport{costs: make(map[string]float64)}
}

// AddCost adds amount to the account's running total
func (r *CostReport) AddCost(accountID string, amount float64) {
	if r.costs == nil {
		r.costs = make(map[string]float64)
	}
	r.costs[accountID] += amount
}

// GetCost returns the accumulated cost for accountID, or 0 if it has none
func (r *CostReport) GetCost(accountID string) float64 {
	if r == nil {
		return 0
	}
	return r.costs[accountID]
}

// Merge adds every entry of other into r. other is left unchanged and may be
// nil. r must not be nil; a zero-value CostReport is a valid target.
func (r *CostReport) Merge(other *CostReport) {
	if other == nil {
		return
	}
	for accountID, amount := range other.costs {
		r.AddCost(accountID, amount)
	}
}

// TotalCost sums all entries
func (r *CostReport) TotalCost() float64 {
	var total float64
	for _, accountID := range r.Accounts() {
		total += r.costs[accountID]
	}
	return total
}

// Accounts returns the account ids present in the report, sorted
func (r *CostReport) Accounts() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.costs))
}

// Len returns the number of accounts in the report
func (r *CostReport) Len() int {
	if r == nil {
		return 0
	}
	return len(r.costs)
}

// DailyCosts maps account id to date string to amount
type DailyCosts map[string]map[string]float64

// Add accumulates amount under (accountID, date)
func (d DailyCosts) Add(accountID, date string, amount float64) {
	days, ok := d[accountID]
	if !ok {
		days = make(map[string]float64)
		d[accountID] = days
	}
	days[date] += amount
}

// Merge folds other into d key-wise, adding amounts that collide
func (d DailyCosts) Merge(other DailyCosts) {
	for accountID, days := range other {
		for date, amount := range days {
			d.Add(accountID, date, amount)
		}
	}
}

// FailedBatch records an account batch whose query did not succeed
type FailedBatch struct {
	AccountIDs []string
	Err        error
}

// DailyCostResult is the outcome of a throttled daily fetch. Accounts listed in
// FailedBatches are unknown, not zero.
type DailyCostResult struct {
	Costs         DailyCosts
	FailedBatches []FailedBatch
}

// MissingAccounts lists every account that belongs to a failed batch
func (r *DailyCostResult) MissingAccounts() []string {
	var missing []string
	for _, batch := range r.FailedBatches {
		missing = append(missing, batch.AccountIDs...)
	}
	return missing
}
