package leasecost

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrHourlyLookback is matched by every ConfigurationError raised for an
	// hourly span older than the lookback ceiling
	ErrHourlyLookback = errors.New("hourly granularity beyond lookback ceiling")

	ErrUnsupportedGranularity = errors.New("unsupported granularity")
)

// ConfigurationError means a query could never succeed as requested. It is
// raised before any request is sent and is not retried.
type ConfigurationError struct {
	SpanStart time.Time
	Earliest  time.Time
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("hourly cost data is only available from %s, requested span starts %s",
		e.Earliest.Format(time.RFC3339), e.SpanStart.Format(time.RFC3339))
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrHourlyLookback
}
