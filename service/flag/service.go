package flag

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/elC0mpa/lease-cost/model"
)

func NewService() *service {
	return &service{}
}

func (s *service) GetParsedFlags() (model.Flags, error) {
	return s.parse(os.Args[1:])
}

func (s *service) parse(args []string) (model.Flags, error) {
	fs := flag.NewFlagSet("lease-cost", flag.ContinueOnError)

	mode := fs.String("mode", "leases", "Operation: leases, range or daily")
	configPath := fs.String("config", "", "YAML configuration file")
	leasesPath := fs.String("leases", "", "YAML or JSON file listing account_id and lease_start")
	accounts := fs.String("accounts", "", "Comma separated account ids (daily mode)")
	start := fs.String("start", "", "Range start, RFC3339 (range and daily modes)")
	end := fs.String("end", "", "Range end, RFC3339. Defaults to now")
	granularity := fs.String("granularity", string(model.GranularityDaily), "DAILY or HOURLY (leases mode)")
	tag := fs.String("tag", "", "Tag filter as key=value1,value2 (range mode)")
	concurrency := fs.Int("concurrency", 0, "Query starts per second in daily mode. 0 uses the configured value")
	region := fs.String("region", "", "AWS region")
	profile := fs.String("profile", "", "AWS profile configuration")

	if err := fs.Parse(args); err != nil {
		return model.Flags{}, err
	}

	flags := model.Flags{
		Mode:        *mode,
		ConfigPath:  *configPath,
		LeasesPath:  *leasesPath,
		Granularity: model.Granularity(strings.ToUpper(*granularity)),
		Concurrency: *concurrency,
		Region:      *region,
		Profile:     *profile,
		End:         time.Now().UTC(),
	}

	if *accounts != "" {
		flags.Accounts = splitList(*accounts)
	}

	var err error
	if *start != "" {
		if flags.Start, err = time.Parse(time.RFC3339, *start); err != nil {
			return model.Flags{}, fmt.Errorf("-start: %w", err)
		}
	}
	if *end != "" {
		if flags.End, err = time.Parse(time.RFC3339, *end); err != nil {
			return model.Flags{}, fmt.Errorf("-end: %w", err)
		}
	}

	if *tag != "" {
		key, values, ok := strings.Cut(*tag, "=")
		if !ok || key == "" {
			return model.Flags{}, fmt.Errorf("-tag: want key=value1,value2, got %q", *tag)
		}
		flags.Tag = &model.TagFilter{Key: key, Values: splitList(values)}
	}

	return flags, nil
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
