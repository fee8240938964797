package metrics

import (
	"time"

	"copilot-usage-dashboard/utils"
)

const dateLayout = "2006-01-02"

// Range identifiers accepted by FromRangeIdentifier. Unrecognized
// identifiers fall back to the 28-day default.
const (
	defaultRangeDays = 28

	RangeOneDay    = "1 day"
	RangeSevenDays = "7 days"
	RangeTwoWeeks  = "14 days"
	RangeFourWeeks = "28 days"
)

var rangeIdentifierDays = map[string]int{
	RangeOneDay:    1,
	RangeSevenDays: 7,
	RangeTwoWeeks:  14,
	RangeFourWeeks: 28,
}

// DateRange is the sole temporal abstraction: all reports key their caches
// and API calls off its formatted bounds. Bounds are whole UTC days.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a range from explicit bounds. The one piece of
// construction-time validation in the core: start after end is an error.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if start.After(end) {
		return DateRange{}, utils.ErrInvalidDateRange
	}
	return DateRange{start: start, end: end}, nil
}

// FromRangeIdentifier builds a range ending today from a symbolic
// identifier such as "7 days". Unrecognized identifiers behave as the
// 28-day default.
func FromRangeIdentifier(identifier string) DateRange {
	days, ok := rangeIdentifierDays[identifier]
	if !ok {
		days = defaultRangeDays
	}
	end := truncateToDay(time.Now().UTC())
	start := end.AddDate(0, 0, -(days - 1))
	return DateRange{start: start, end: end}
}

// ParseDateRange builds a range from two YYYY-MM-DD strings.
func ParseDateRange(from, to string) (DateRange, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return DateRange{}, utils.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return DateRange{}, utils.ErrInvalidDateFormat
	}
	return NewDateRange(start, end)
}

// Days returns the inclusive day count (end - start + 1).
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start)/(24*time.Hour)) + 1
}

// FormattedStart returns the start bound as YYYY-MM-DD.
func (r DateRange) FormattedStart() string {
	return r.start.Format(dateLayout)
}

// FormattedEnd returns the end bound as YYYY-MM-DD.
func (r DateRange) FormattedEnd() string {
	return r.end.Format(dateLayout)
}

// Contains reports whether date falls inside the range, bounds inclusive.
func (r DateRange) Contains(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(r.start) && !d.After(r.end)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
