package leasecost

import (
	"fmt"
	"time"

	"github.com/elC0mpa/lease-cost/model"
)

const (
	hourlyLayout = "2006-01-02T15:04:05Z"
	dateLayout   = "2006-01-02"

	// HourlyLookback is how far back Cost Explorer serves hourly data
	HourlyLookback = 14 * 24 * time.Hour
)

// Span is one query-sized slice of a requested range
type Span struct {
	Granularity model.Granularity
	Range       model.TimeRange
}

// Query renders the span as a cost query for the given accounts
func (s Span) Query(accountIDs []string, tag *model.TagFilter) model.CostQuery {
	return model.CostQuery{
		TimePeriod: model.DateInterval{
			Start: FormatTime(s.Range.Start, s.Granularity),
			End:   FormatTime(s.Range.End, s.Granularity),
		},
		Granularity: s.Granularity,
		AccountIDs:  accountIDs,
		Tag:         tag,
	}
}

// Splitter partitions a requested range into spans the billing API accepts
type Splitter struct {
	now func() time.Time
}

func NewSplitter(now func() time.Time) *Splitter {
	if now == nil {
		now = time.Now
	}
	return &Splitter{now: now}
}

// Plan returns the spans to query for [start, end) at the requested
// granularity. Hourly requests of a day or more are served as a daily span up
// to the start of end's day plus an hourly span for the final partial day.
func (s *Splitter) Plan(start, end time.Time, granularity model.Granularity) ([]Span, error) {
	start, end = start.UTC(), end.UTC()

	var spans []Span
	switch granularity {
	case model.GranularityHourly:
		if end.Sub(start) < 24*time.Hour {
			spans = []Span{{
				Granularity: model.GranularityHourly,
				Range:       model.TimeRange{Start: start, End: NextPeriodStart(end, model.GranularityHourly)},
			}}
			break
		}
		endDay := StartOfDay(end)
		spans = []Span{
			{
				Granularity: model.GranularityDaily,
				Range:       model.TimeRange{Start: start, End: endDay},
			},
			{
				Granularity: model.GranularityHourly,
				Range:       model.TimeRange{Start: endDay, End: NextPeriodStart(end, model.GranularityHourly)},
			},
		}
	case model.GranularityDaily, model.GranularityMonthly:
		spans = []Span{{
			Granularity: granularity,
			Range:       model.TimeRange{Start: start, End: NextPeriodStart(end, granularity)},
		}}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, granularity)
	}

	for _, span := range spans {
		if err := s.checkLookback(span); err != nil {
			return nil, err
		}
	}
	return spans, nil
}

func (s *Splitter) checkLookback(span Span) error {
	if span.Granularity != model.GranularityHourly {
		return nil
	}
	earliest := s.now().UTC().Add(-HourlyLookback)
	if span.Range.Start.Before(earliest) {
		return &ConfigurationError{SpanStart: span.Range.Start, Earliest: earliest}
	}
	return nil
}

// FormatTime renders t the way the billing API expects for granularity
func FormatTime(t time.Time, granularity model.Granularity) string {
	if granularity == model.GranularityHourly {
		return t.UTC().Format(hourlyLayout)
	}
	return t.UTC().Format(dateLayout)
}

// ParseBucketStart reads a bucket start in either hourly or date form
func ParseBucketStart(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse bucket start %q: %w", value, err)
	}
	return t, nil
}

// NextPeriodStart returns the start of the period following the one t is in
func NextPeriodStart(t time.Time, granularity model.Granularity) time.Time {
	aligned := Align(t, granularity)
	switch granularity {
	case model.GranularityHourly:
		return aligned.Add(time.Hour)
	case model.GranularityMonthly:
		return aligned.AddDate(0, 1, 0)
	default:
		return aligned.AddDate(0, 0, 1)
	}
}

// StartOfDay truncates t to midnight UTC
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Align truncates t to the start of its granularity unit, in UTC
func Align(t time.Time, granularity model.Granularity) time.Time {
	t = t.UTC()
	switch granularity {
	case model.GranularityHourly:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	case model.GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return StartOfDay(t)
	}
}
