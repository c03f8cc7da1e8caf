package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/lease-cost/response"
	"github.com/elC0mpa/lease-cost/service"
)

// RegisterAWSTools registers identity tools with the MCP server
func RegisterAWSTools(s *server.MCPServer, identity service.IdentityService) {
	s.AddTool(
		mcp.NewTool("aws_get_account_info",
			mcp.WithDescription("Get the AWS identity cost queries run as, normally the organization payer account"),
		),
		makeAWSAccountInfoHandler(identity),
	)
}

func makeAWSAccountInfoHandler(identity service.IdentityService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info, err := identity.GetAccountInfo(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get account info: %v", err)), nil
		}

		return jsonResult(response.ConvertAccountInfo(info))
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
