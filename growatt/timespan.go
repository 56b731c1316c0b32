package growatt

import (
	"fmt"
	"strconv"
	"time"
)

// Timespan is the aggregation granularity of time-series queries. The
// integer values are wire codes used verbatim in query parameters.
type Timespan int

const (
	TimespanHour Timespan = iota
	TimespanDay
	TimespanMonth
)

func (t Timespan) String() string {
	switch t {
	case TimespanHour:
		return "hour"
	case TimespanDay:
		return "day"
	case TimespanMonth:
		return "month"
	}
	return fmt.Sprintf("timespan(%d)", int(t))
}

// param renders the wire code for query parameters.
func (t Timespan) param() string {
	return strconv.Itoa(int(t))
}

func (t Timespan) valid() bool {
	return t >= TimespanHour && t <= TimespanMonth
}

// dateString formats date for time-windowed endpoints: month queries use
// YYYY-MM, everything else YYYY-MM-DD. A zero date means now.
func dateString(ts Timespan, date time.Time) (string, error) {
	if !ts.valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidTimespan, ts)
	}

	if date.IsZero() {
		date = time.Now()
	}

	if ts == TimespanMonth {
		return date.Format("2006-01"), nil
	}
	return date.Format("2006-01-02"), nil
}
