package leasecost

import (
	"github.com/elC0mpa/lease-cost/service"
	"github.com/elC0mpa/lease-cost/service/logger"
)

type leaseCostService struct {
	client    service.CostQueryService
	splitter  *Splitter
	logger    logger.Logger
	batchSize int
}

// Option configures the lease cost service
type Option func(*leaseCostService)

func WithLogger(l logger.Logger) Option {
	return func(s *leaseCostService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSplitter replaces the splitter, mainly to pin "now" in tests
func WithSplitter(splitter *Splitter) Option {
	return func(s *leaseCostService) {
		if splitter != nil {
			s.splitter = splitter
		}
	}
}

// WithBatchSize lowers the account filter size. Values outside
// [1, MaxBatchSize] fall back to MaxBatchSize.
func WithBatchSize(size int) Option {
	return func(s *leaseCostService) {
		s.batchSize = filterBatchSize(size)
	}
}
