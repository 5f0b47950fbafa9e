package journal

import (
	"fmt"
	"time"
)

// Date is a calendar date in ISO 8601 format (YYYY-MM-DD). Entries are
// filtered on whole days; time of day never enters the picture.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", value)
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate that panics on error. Use in tests.
func MustParseDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}
