package orchestrator

import (
	"context"
	"io"

	"github.com/elC0mpa/lease-cost/model"
	"github.com/elC0mpa/lease-cost/service"
	"github.com/elC0mpa/lease-cost/service/logger"
)

type orchestratorService struct {
	identityService  service.IdentityService
	leaseCostService service.LeaseCostService
	logger           logger.Logger
	out              io.Writer
	maxConcurrency   int
	readFile         func(string) ([]byte, error)
}

type OrchestratorService interface {
	Orchestrate(ctx context.Context, flags model.Flags) error
}
