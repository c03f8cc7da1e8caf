package awscostexplorer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/google/go-cmp/cmp"

	"github.com/elC0mpa/lease-cost/model"
)

type fakeCostExplorer struct {
	pages  []*costexplorer.GetCostAndUsageOutput
	inputs []costexplorer.GetCostAndUsageInput
	err    error
}

func (f *fakeCostExplorer) GetCostAndUsage(_ context.Context, params *costexplorer.GetCostAndUsageInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	f.inputs = append(f.inputs, *params)
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[len(f.inputs)-1]
	return page, nil
}

func group(account, amount string) types.Group {
	return types.Group{
		Keys: []string{account},
		Metrics: map[string]types.MetricValue{
			costsAggregation: {Amount: aws.String(amount), Unit: aws.String("USD")},
		},
	}
}

func TestQueryGroupedCostFollowsPages(t *testing.T) {
	fake := &fakeCostExplorer{pages: []*costexplorer.GetCostAndUsageOutput{
		{
			ResultsByTime: []types.ResultByTime{{
				TimePeriod: &types.DateInterval{Start: aws.String("2024-03-01"), End: aws.String("2024-03-02")},
				Groups:     []types.Group{group("111", "1.50")},
			}},
			NextPageToken: aws.String("page-2"),
		},
		{
			ResultsByTime: []types.ResultByTime{{
				TimePeriod: &types.DateInterval{Start: aws.String("2024-03-02"), End: aws.String("2024-03-03")},
				Groups:     []types.Group{group("222", "2.00"), {Keys: nil}},
			}},
		},
	}}
	s := &service{client: fake}

	buckets, err := s.QueryGroupedCost(context.Background(), model.CostQuery{
		TimePeriod:  model.DateInterval{Start: "2024-03-01", End: "2024-03-03"},
		Granularity: model.GranularityDaily,
		AccountIDs:  []string{"111", "222"},
	})
	if err != nil {
		t.Fatalf("QueryGroupedCost() error = %v", err)
	}

	want := []model.CostResultBucket{
		{BucketStart: "2024-03-01", Groups: []model.AccountCost{{AccountID: "111", Amount: "1.50"}}},
		{BucketStart: "2024-03-02", Groups: []model.AccountCost{{AccountID: "222", Amount: "2.00"}}},
	}
	if diff := cmp.Diff(want, buckets); diff != "" {
		t.Errorf("buckets mismatch (-want +got):\n%s", diff)
	}

	if len(fake.inputs) != 2 {
		t.Fatalf("got %d calls, want 2", len(fake.inputs))
	}
	if got := aws.ToString(fake.inputs[1].NextPageToken); got != "page-2" {
		t.Errorf("second call token = %q, want page-2", got)
	}

	first := fake.inputs[0]
	if first.Granularity != types.GranularityDaily {
		t.Errorf("granularity = %s", first.Granularity)
	}
	if first.Filter == nil || first.Filter.Dimensions == nil || first.Filter.Dimensions.Key != types.DimensionLinkedAccount {
		t.Fatalf("filter = %+v, want LINKED_ACCOUNT dimension", first.Filter)
	}
	if diff := cmp.Diff([]string{"111", "222"}, first.Filter.Dimensions.Values); diff != "" {
		t.Errorf("filter values mismatch (-want +got):\n%s", diff)
	}
	if aws.ToString(first.GroupBy[0].Key) != "LINKED_ACCOUNT" {
		t.Errorf("group by = %s", aws.ToString(first.GroupBy[0].Key))
	}
}

func TestQueryGroupedCostTagFilterIsAnded(t *testing.T) {
	fake := &fakeCostExplorer{pages: []*costexplorer.GetCostAndUsageOutput{{}}}
	s := &service{client: fake}

	buckets, err := s.QueryGroupedCost(context.Background(), model.CostQuery{
		TimePeriod:  model.DateInterval{Start: "2024-03-01", End: "2024-03-03"},
		Granularity: model.GranularityDaily,
		AccountIDs:  []string{"111"},
		Tag:         &model.TagFilter{Key: "category", Values: []string{"compute"}},
	})
	if err != nil {
		t.Fatalf("QueryGroupedCost() error = %v", err)
	}
	if len(buckets) != 0 {
		t.Errorf("got %d buckets, want 0", len(buckets))
	}

	filter := fake.inputs[0].Filter
	if filter == nil || len(filter.And) != 2 {
		t.Fatalf("filter = %+v, want And of two expressions", filter)
	}
	if filter.And[0].Dimensions == nil || filter.And[1].Tags == nil {
		t.Errorf("And operands = %+v", filter.And)
	}
	if got := aws.ToString(filter.And[1].Tags.Key); got != "category" {
		t.Errorf("tag key = %q, want category", got)
	}
}

func TestQueryGroupedCostRejectsOversizedFilter(t *testing.T) {
	fake := &fakeCostExplorer{}
	s := &service{client: fake}

	ids := make([]string, maxFilterValues+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("%012d", i)
	}

	_, err := s.QueryGroupedCost(context.Background(), model.CostQuery{AccountIDs: ids})
	if !errors.Is(err, ErrTooManyAccounts) {
		t.Errorf("error = %v, want ErrTooManyAccounts", err)
	}
	if len(fake.inputs) != 0 {
		t.Errorf("issued %d calls, want 0", len(fake.inputs))
	}
}

func TestQueryGroupedCostRejectsResultWithoutPeriod(t *testing.T) {
	fake := &fakeCostExplorer{pages: []*costexplorer.GetCostAndUsageOutput{
		{ResultsByTime: []types.ResultByTime{{Groups: []types.Group{group("111", "1")}}}},
	}}
	s := &service{client: fake}

	_, err := s.QueryGroupedCost(context.Background(), model.CostQuery{AccountIDs: []string{"111"}})
	if !errors.Is(err, ErrMissingPeriod) {
		t.Errorf("error = %v, want ErrMissingPeriod", err)
	}
}

func TestQueryGroupedCostPropagatesError(t *testing.T) {
	boom := errors.New("LimitExceededException")
	s := &service{client: &fakeCostExplorer{err: boom}}

	if _, err := s.QueryGroupedCost(context.Background(), model.CostQuery{}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}
