package leasecost

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/elC0mpa/lease-cost/model"
)

func dailyHandler(q model.CostQuery) []model.CostResultBucket {
	var buckets []model.CostResultBucket
	for _, day := range []string{"2024-03-01", "2024-03-02"} {
		groups := make([]model.AccountCost, 0, len(q.AccountIDs))
		for _, id := range q.AccountIDs {
			groups = append(groups, model.AccountCost{AccountID: id, Amount: "1.25"})
		}
		buckets = append(buckets, model.CostResultBucket{BucketStart: day, Groups: groups})
	}
	return buckets
}

func TestGetDailyCostsByAccountDropsFailedBatch(t *testing.T) {
	client := &fakeCostQuery{
		handler: func(q model.CostQuery) ([]model.CostResultBucket, error) {
			if slices.Contains(q.AccountIDs, "c1") {
				return nil, errors.New("rate exceeded")
			}
			return dailyHandler(q), nil
		},
	}
	s := newTestService(client, time.Now(), WithBatchSize(2))

	accounts := []string{"a1", "a2", "b1", "b2", "c1", "c2"}
	result := s.GetDailyCostsByAccount(context.Background(), accounts, mustTime(t, "2024-03-01T00:00:00Z"), mustTime(t, "2024-03-02T00:00:00Z"), 5)

	got := make([]string, 0, len(result.Costs))
	for id := range result.Costs {
		got = append(got, id)
	}
	sort.Strings(got)
	if diff := cmp.Diff([]string{"a1", "a2", "b1", "b2"}, got); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[string]float64{"2024-03-01": 1.25, "2024-03-02": 1.25}, result.Costs["b2"]); diff != "" {
		t.Errorf("daily costs mismatch (-want +got):\n%s", diff)
	}

	if len(result.FailedBatches) != 1 {
		t.Fatalf("got %d failed batches, want 1", len(result.FailedBatches))
	}
	if diff := cmp.Diff([]string{"c1", "c2"}, result.MissingAccounts()); diff != "" {
		t.Errorf("missing accounts mismatch (-want +got):\n%s", diff)
	}

	for _, q := range client.Calls() {
		if q.Granularity != model.GranularityDaily {
			t.Errorf("granularity = %s, want DAILY", q.Granularity)
		}
		if diff := cmp.Diff(model.DateInterval{Start: "2024-03-01", End: "2024-03-03"}, q.TimePeriod); diff != "" {
			t.Errorf("time period mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestGetDailyCostsByAccountDeduplicatesAccounts(t *testing.T) {
	client := &fakeCostQuery{
		handler: func(q model.CostQuery) ([]model.CostResultBucket, error) { return dailyHandler(q), nil },
	}
	s := newTestService(client, time.Now())

	result := s.GetDailyCostsByAccount(context.Background(), []string{"a", "b", "a"}, mustTime(t, "2024-03-01T00:00:00Z"), mustTime(t, "2024-03-02T00:00:00Z"), 2)

	calls := client.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d queries, want 1", len(calls))
	}
	if diff := cmp.Diff([]string{"a", "b"}, calls[0].AccountIDs); diff != "" {
		t.Errorf("account filter mismatch (-want +got):\n%s", diff)
	}
	if got := result.Costs["a"]["2024-03-01"]; got != 1.25 {
		t.Errorf("a on 2024-03-01 = %v, want 1.25", got)
	}
}

func TestGetDailyCostsByAccountPacesQueryStarts(t *testing.T) {
	const maxConcurrency = 3

	var (
		mu     sync.Mutex
		starts []time.Time
	)
	var inFlight, maxInFlight atomic.Int32
	client := &fakeCostQuery{
		handler: func(q model.CostQuery) ([]model.CostResultBucket, error) {
			mu.Lock()
			starts = append(starts, time.Now())
			mu.Unlock()

			cur := inFlight.Add(1)
			for {
				old := maxInFlight.Load()
				if cur <= old || maxInFlight.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			return dailyHandler(q), nil
		},
	}
	s := newTestService(client, time.Now(), WithBatchSize(1))

	accounts := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	result := s.GetDailyCostsByAccount(context.Background(), accounts, mustTime(t, "2024-03-01T00:00:00Z"), mustTime(t, "2024-03-01T00:00:00Z"), maxConcurrency)

	if len(result.Costs) != len(accounts) {
		t.Errorf("got %d accounts, want %d", len(result.Costs), len(accounts))
	}
	if m := maxInFlight.Load(); m > maxConcurrency {
		t.Errorf("max in flight = %d, want <= %d", m, maxConcurrency)
	}

	mu.Lock()
	defer mu.Unlock()
	slices.SortFunc(starts, func(a, b time.Time) int { return a.Compare(b) })

	// Allow for wake-up jitter on the rolling one-second window
	const window = 950 * time.Millisecond
	for i, first := range starts {
		n := 0
		for _, ts := range starts[i:] {
			if ts.Sub(first) >= window {
				break
			}
			n++
		}
		if n > maxConcurrency {
			t.Errorf("%d query starts within %s of %s, want <= %d", n, window, first.Format(time.RFC3339Nano), maxConcurrency)
		}
	}
}

func TestGetDailyCostsByAccountCancelledContext(t *testing.T) {
	client := &fakeCostQuery{
		handler: func(q model.CostQuery) ([]model.CostResultBucket, error) { return dailyHandler(q), nil },
	}
	s := newTestService(client, time.Now(), WithBatchSize(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := s.GetDailyCostsByAccount(ctx, []string{"a", "b"}, mustTime(t, "2024-03-01T00:00:00Z"), mustTime(t, "2024-03-01T00:00:00Z"), 1)

	if len(result.Costs) != 0 {
		t.Errorf("got %d accounts, want 0", len(result.Costs))
	}
	if len(result.FailedBatches) != 2 {
		t.Errorf("got %d failed batches, want 2", len(result.FailedBatches))
	}
	for _, fb := range result.FailedBatches {
		if !errors.Is(fb.Err, context.Canceled) {
			t.Errorf("failed batch error = %v, want context.Canceled", fb.Err)
		}
	}
}
