package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/lease-cost/model"
	"github.com/elC0mpa/lease-cost/response"
	"github.com/elC0mpa/lease-cost/service"
	"github.com/elC0mpa/lease-cost/service/leasecost"
)

const leasesDescription = `JSON list of leases, e.g. [{"account_id":"111122223333","lease_start":"2024-03-01T00:00:00Z"}]`

// RegisterLeaseCostTools registers the lease cost tools with the MCP server
func RegisterLeaseCostTools(s *server.MCPServer, svc service.LeaseCostService, defaultConcurrency int) {
	s.AddTool(
		mcp.NewTool("lease_costs",
			mcp.WithDescription("Total cost per leased account from each account's lease start until end. Cost before a lease began is excluded."),
			mcp.WithString("leases", mcp.Required(), mcp.Description(leasesDescription)),
			mcp.WithString("end", mcp.Description("End timestamp, RFC3339. Defaults to now")),
			mcp.WithString("granularity", mcp.Description("DAILY (default) or HOURLY. HOURLY only reaches back 14 days")),
		),
		makeLeaseCostsHandler(svc),
	)

	s.AddTool(
		mcp.NewTool("lease_range_costs",
			mcp.WithDescription("Total cost per leased account over a fixed date range, optionally restricted to a tag value"),
			mcp.WithString("leases", mcp.Required(), mcp.Description(leasesDescription)),
			mcp.WithString("start", mcp.Required(), mcp.Description("Range start, RFC3339")),
			mcp.WithString("end", mcp.Required(), mcp.Description("Range end (exclusive), RFC3339")),
			mcp.WithString("tag_key", mcp.Description("Tag key to filter on")),
			mcp.WithString("tag_values", mcp.Description("Comma separated tag values")),
		),
		makeLeaseRangeCostsHandler(svc),
	)

	s.AddTool(
		mcp.NewTool("daily_account_costs",
			mcp.WithDescription("Cost per account per day. Accounts whose batch failed are listed in missing_accounts and have unknown cost."),
			mcp.WithString("account_ids", mcp.Required(), mcp.Description("Comma separated account ids")),
			mcp.WithString("start", mcp.Required(), mcp.Description("First day, RFC3339")),
			mcp.WithString("end", mcp.Required(), mcp.Description("Last day (inclusive), RFC3339")),
			mcp.WithNumber("max_concurrency", mcp.Description("Query starts per second")),
		),
		makeDailyAccountCostsHandler(svc, defaultConcurrency),
	)
}

func makeLeaseCostsHandler(svc service.LeaseCostService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		leases, err := leasesArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, err := timeArg(request, "end", time.Now().UTC())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		granularity := model.Granularity(strings.ToUpper(request.GetString("granularity", string(model.GranularityDaily))))

		report, err := svc.GetCostForLeases(ctx, leases, end, granularity)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get lease costs: %v", err)), nil
		}

		return jsonResult(response.ConvertCostReport(report, granularity, "", leasecost.FormatTime(end, granularity)))
	}
}

func makeLeaseRangeCostsHandler(svc service.LeaseCostService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		leases, err := leasesArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		start, err := timeArg(request, "start", time.Time{})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, err := timeArg(request, "end", time.Time{})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var tag *model.TagFilter
		if key := request.GetString("tag_key", ""); key != "" {
			tag = &model.TagFilter{Key: key, Values: splitList(request.GetString("tag_values", ""))}
		}

		report, err := svc.GetCostForRange(ctx, start, end, leases, tag)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get range costs: %v", err)), nil
		}

		return jsonResult(response.ConvertCostReport(report, model.GranularityDaily,
			leasecost.FormatTime(start, model.GranularityDaily), leasecost.FormatTime(end, model.GranularityDaily)))
	}
}

func makeDailyAccountCostsHandler(svc service.LeaseCostService, defaultConcurrency int) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("account_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		accountIDs := splitList(raw)
		if len(accountIDs) == 0 {
			return mcp.NewToolResultError("account_ids must list at least one account"), nil
		}
		start, err := timeArg(request, "start", time.Time{})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, err := timeArg(request, "end", time.Time{})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		concurrency := request.GetInt("max_concurrency", defaultConcurrency)

		result := svc.GetDailyCostsByAccount(ctx, accountIDs, start, end, concurrency)

		return jsonResult(response.ConvertDailyCosts(result,
			leasecost.FormatTime(start, model.GranularityDaily), leasecost.FormatTime(end, model.GranularityDaily)))
	}
}

func leasesArg(request mcp.CallToolRequest) ([]model.LeaseWindow, error) {
	raw, err := request.RequireString("leases")
	if err != nil {
		return nil, err
	}
	return leasecost.ParseLeases([]byte(raw))
}

// timeArg parses an RFC3339 argument. A zero fallback makes it required.
func timeArg(request mcp.CallToolRequest, name string, fallback time.Time) (time.Time, error) {
	raw := request.GetString(name, "")
	if raw == "" {
		if fallback.IsZero() {
			return time.Time{}, fmt.Errorf("%s is required", name)
		}
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
