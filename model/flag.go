package model

import "time"

type Flags struct {
	// Which engine operation to run: leases, range or daily
	Mode string

	ConfigPath  string
	LeasesPath  string
	Accounts    []string
	Start       time.Time
	End         time.Time
	Granularity Granularity
	Tag         *TagFilter
	Concurrency int

	// AWS-specific flags
	Region  string
	Profile string
}
