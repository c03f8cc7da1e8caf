package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/elC0mpa/lease-cost/model"
	"github.com/elC0mpa/lease-cost/response"
	"github.com/elC0mpa/lease-cost/service"
	"github.com/elC0mpa/lease-cost/service/leasecost"
	"github.com/elC0mpa/lease-cost/service/logger"
)

var ErrUnknownMode = errors.New("unknown mode")

func NewService(identityService service.IdentityService, leaseCostService service.LeaseCostService, log logger.Logger, out io.Writer, maxConcurrency int) *orchestratorService {
	return &orchestratorService{
		identityService:  identityService,
		leaseCostService: leaseCostService,
		logger:           log,
		out:              out,
		maxConcurrency:   maxConcurrency,
		readFile:         os.ReadFile,
	}
}

func (s *orchestratorService) Orchestrate(ctx context.Context, flags model.Flags) error {
	if s.identityService != nil {
		info, err := s.identityService.GetAccountInfo(ctx)
		if err != nil {
			return err
		}
		s.logger.Info("querying cost explorer", "payer_account", info.AccountID, "mode", flags.Mode)
	}

	switch flags.Mode {
	case "leases":
		return s.leasesWorkflow(ctx, flags)
	case "range":
		return s.rangeWorkflow(ctx, flags)
	case "daily":
		return s.dailyWorkflow(ctx, flags)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, flags.Mode)
	}
}

func (s *orchestratorService) leasesWorkflow(ctx context.Context, flags model.Flags) error {
	leases, err := s.loadLeases(flags.LeasesPath)
	if err != nil {
		return err
	}

	report, err := s.leaseCostService.GetCostForLeases(ctx, leases, flags.End, flags.Granularity)
	if err != nil {
		return err
	}

	return s.write(response.ConvertCostReport(report, flags.Granularity, "", leasecost.FormatTime(flags.End, flags.Granularity)))
}

func (s *orchestratorService) rangeWorkflow(ctx context.Context, flags model.Flags) error {
	if flags.Start.IsZero() {
		return errors.New("range mode requires -start")
	}
	leases, err := s.loadLeases(flags.LeasesPath)
	if err != nil {
		return err
	}

	report, err := s.leaseCostService.GetCostForRange(ctx, flags.Start, flags.End, leases, flags.Tag)
	if err != nil {
		return err
	}

	return s.write(response.ConvertCostReport(report, model.GranularityDaily,
		leasecost.FormatTime(flags.Start, model.GranularityDaily), leasecost.FormatTime(flags.End, model.GranularityDaily)))
}

func (s *orchestratorService) dailyWorkflow(ctx context.Context, flags model.Flags) error {
	if flags.Start.IsZero() {
		return errors.New("daily mode requires -start")
	}
	if len(flags.Accounts) == 0 {
		return errors.New("daily mode requires -accounts")
	}

	concurrency := flags.Concurrency
	if concurrency < 1 {
		concurrency = s.maxConcurrency
	}

	result := s.leaseCostService.GetDailyCostsByAccount(ctx, flags.Accounts, flags.Start, flags.End, concurrency)
	if missing := result.MissingAccounts(); len(missing) > 0 {
		s.logger.Warn("some accounts have unknown cost", "missing", len(missing))
	}

	return s.write(response.ConvertDailyCosts(result,
		leasecost.FormatTime(flags.Start, model.GranularityDaily), leasecost.FormatTime(flags.End, model.GranularityDaily)))
}

func (s *orchestratorService) loadLeases(path string) ([]model.LeaseWindow, error) {
	if path == "" {
		return nil, errors.New("a lease file is required (-leases)")
	}
	data, err := s.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lease file: %w", err)
	}
	return leasecost.ParseLeases(data)
}

func (s *orchestratorService) write(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
