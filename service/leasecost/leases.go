package leasecost

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/elC0mpa/lease-cost/model"
)

// ParseLeases reads a YAML or JSON list of lease windows
func ParseLeases(data []byte) ([]model.LeaseWindow, error) {
	var leases []model.LeaseWindow
	if err := yaml.Unmarshal(data, &leases); err != nil {
		return nil, fmt.Errorf("parse leases: %w", err)
	}

	var errs []error
	for i, lease := range leases {
		if lease.AccountID == "" {
			errs = append(errs, fmt.Errorf("lease %d: account_id is required", i))
		}
		if lease.LeaseStart.IsZero() {
			errs = append(errs, fmt.Errorf("lease %d: lease_start is required", i))
		}
		leases[i].LeaseStart = lease.LeaseStart.UTC()
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return leases, nil
}
