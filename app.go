package main

import (
	"context"
	"os"

	"github.com/elC0mpa/lease-cost/service/config"
	awsconfig "github.com/elC0mpa/lease-cost/service/aws/config"
	awscostexplorer "github.com/elC0mpa/lease-cost/service/aws/costexplorer"
	awssts "github.com/elC0mpa/lease-cost/service/aws/sts"
	"github.com/elC0mpa/lease-cost/service/flag"
	"github.com/elC0mpa/lease-cost/service/leasecost"
	"github.com/elC0mpa/lease-cost/service/logger"
	"github.com/elC0mpa/lease-cost/service/orchestrator"
)

func main() {
	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		panic(err)
	}

	configPath := flags.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigFile
	}
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		panic(err)
	}
	if flags.Region != "" {
		cfg.AWS.Region = flags.Region
	}
	if flags.Profile != "" {
		cfg.AWS.Profile = flags.Profile
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	cfgService := awsconfig.NewService()
	awsCfg, err := cfgService.GetAWSCfg(ctx, awsconfig.Options{
		Region:      cfg.AWS.Region,
		Profile:     cfg.AWS.Profile,
		MaxAttempts: cfg.AWS.MaxAttempts,
		MaxBackoff:  cfg.AWS.MaxBackoff,
	})
	if err != nil {
		panic(err)
	}

	costService := awscostexplorer.NewService(awsCfg)
	stsService := awssts.NewService(awsCfg)
	leaseCostService := leasecost.NewService(costService,
		leasecost.WithLogger(log),
		leasecost.WithBatchSize(cfg.Engine.BatchSize),
	)

	orchestratorService := orchestrator.NewService(stsService, leaseCostService, log, os.Stdout, cfg.Engine.MaxConcurrency)

	if err := orchestratorService.Orchestrate(ctx, flags); err != nil {
		log.Error("lease cost run failed", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}
