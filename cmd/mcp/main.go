package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/lease-cost/cmd/mcp/tools"
	awsconfig "github.com/elC0mpa/lease-cost/service/aws/config"
	awscostexplorer "github.com/elC0mpa/lease-cost/service/aws/costexplorer"
	awssts "github.com/elC0mpa/lease-cost/service/aws/sts"
	"github.com/elC0mpa/lease-cost/service/leasecost"
	"github.com/elC0mpa/lease-cost/service/logger"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol, logger.New writes to stderr
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	awsCfg, err := awsconfig.NewService().GetAWSCfg(context.Background(), awsconfig.Options{
		Region:      cfg.AWS.Region,
		Profile:     cfg.AWS.Profile,
		MaxAttempts: cfg.AWS.MaxAttempts,
		MaxBackoff:  cfg.AWS.MaxBackoff,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure AWS: %v\n", err)
		os.Exit(1)
	}

	leaseCostService := leasecost.NewService(awscostexplorer.NewService(awsCfg),
		leasecost.WithLogger(log),
		leasecost.WithBatchSize(cfg.Engine.BatchSize),
	)

	s := server.NewMCPServer(
		"lease-cost-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools.RegisterLeaseCostTools(s, leaseCostService, cfg.Engine.MaxConcurrency)
	tools.RegisterAWSTools(s, awssts.NewService(awsCfg))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
