package awscostexplorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/elC0mpa/lease-cost/model"
)

var (
	ErrTooManyAccounts = errors.New("account filter exceeds cost explorer limit")
	ErrMissingPeriod   = errors.New("cost explorer result without time period")
)

func NewService(awsconfig aws.Config) *service {
	return &service{client: costexplorer.NewFromConfig(awsconfig)}
}

// QueryGroupedCost runs GetCostAndUsage grouped by linked account, following
// pagination until every page has been read
func (s *service) QueryGroupedCost(ctx context.Context, query model.CostQuery) ([]model.CostResultBucket, error) {
	if len(query.AccountIDs) > maxFilterValues {
		return nil, fmt.Errorf("%w: %d accounts", ErrTooManyAccounts, len(query.AccountIDs))
	}

	input := &costexplorer.GetCostAndUsageInput{
		Granularity: types.Granularity(query.Granularity),
		TimePeriod: &types.DateInterval{
			Start: aws.String(query.TimePeriod.Start),
			End:   aws.String(query.TimePeriod.End),
		},
		Metrics: []string{costsAggregation},
		GroupBy: []types.GroupDefinition{
			{
				Key:  aws.String(string(types.DimensionLinkedAccount)),
				Type: types.GroupDefinitionTypeDimension,
			},
		},
		Filter: buildFilter(query),
	}

	var buckets []model.CostResultBucket
	for {
		output, err := s.client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, err
		}

		for _, result := range output.ResultsByTime {
			bucket, err := toBucket(result)
			if err != nil {
				return nil, err
			}
			buckets = append(buckets, bucket)
		}

		if aws.ToString(output.NextPageToken) == "" {
			break
		}
		input.NextPageToken = output.NextPageToken
	}

	return buckets, nil
}

func buildFilter(query model.CostQuery) *types.Expression {
	var accounts *types.Expression
	if len(query.AccountIDs) > 0 {
		accounts = &types.Expression{
			Dimensions: &types.DimensionValues{
				Key:    types.DimensionLinkedAccount,
				Values: query.AccountIDs,
			},
		}
	}

	if query.Tag == nil {
		return accounts
	}

	tag := &types.Expression{
		Tags: &types.TagValues{
			Key:    aws.String(query.Tag.Key),
			Values: query.Tag.Values,
		},
	}
	if accounts == nil {
		return tag
	}
	return &types.Expression{And: []types.Expression{*accounts, *tag}}
}

func toBucket(result types.ResultByTime) (model.CostResultBucket, error) {
	if result.TimePeriod == nil || aws.ToString(result.TimePeriod.Start) == "" {
		return model.CostResultBucket{}, ErrMissingPeriod
	}

	bucket := model.CostResultBucket{
		BucketStart: aws.ToString(result.TimePeriod.Start),
		Groups:      make([]model.AccountCost, 0, len(result.Groups)),
	}
	for _, g := range result.Groups {
		if len(g.Keys) == 0 {
			continue
		}
		amount := ""
		if metric, ok := g.Metrics[costsAggregation]; ok {
			amount = aws.ToString(metric.Amount)
		}
		bucket.Groups = append(bucket.Groups, model.AccountCost{
			AccountID: g.Keys[0],
			Amount:    amount,
		})
	}
	return bucket, nil
}
