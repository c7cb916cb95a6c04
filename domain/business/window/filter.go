package window

import (
	"bikeflow/domain/business/bucketstore"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidFilter = errors.New("invalid time filter")

// AnySentinel is the raw filter value that means "no time restriction"
const AnySentinel = -1

// Filter is the time filter supplied by the caller on every query. It is either Any, which
// includes every minute of the day, or a window centered on a minute of the day.
// The zero value is a window centered at minute 0; use Any to disable windowing.
type Filter struct {
	any    bool
	minute int
}

// Any returns the filter without time restriction
func Any() Filter {
	return Filter{any: true}
}

// At returns a filter centered on minute. Values outside [0, 1439] are normalized modulo 1440
// because the minute of the day is circular.
func At(minute int) Filter {
	return Filter{minute: bucketstore.NormalizeMinute(minute)}
}

// FromTimeFilter maps the raw value used by the slider to a Filter: AnySentinel means Any,
// everything else is a minute of the day
func FromTimeFilter(value int) Filter {
	if value == AnySentinel {
		return Any()
	}
	return At(value)
}

// IsAny returns true if the filter does not restrict time
func (f Filter) IsAny() bool {
	return f.any
}

// Minute returns the center of the window and false when the filter is Any
func (f Filter) Minute() (int, bool) {
	if f.any {
		return 0, false
	}
	return f.minute, true
}

// TimeFilter returns the raw value of the filter, AnySentinel for Any
func (f Filter) TimeFilter() int {
	if f.any {
		return AnySentinel
	}
	return f.minute
}

func (f Filter) String() string {
	if f.any {
		return "any"
	}
	return fmt.Sprintf("%02d:%02d", f.minute/60, f.minute%60)
}

// ParseFilter is the inverse of String: "any" (case insensitive) or an "HH:MM" clock time
func ParseFilter(value string) (Filter, error) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "any") {
		return Any(), nil
	}

	clock, err := time.Parse("15:04", value)
	if err != nil {
		return Filter{}, fmt.Errorf("%w %q: %w", ErrInvalidFilter, value, err)
	}
	return At(clock.Hour()*60 + clock.Minute()), nil
}
