package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the fixed timestamp format used at the HTTP boundary:
// "yyyy-MM-dd HH:mm:ss", no timezone.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime wraps time.Time so JSON payloads use DateTimeLayout instead of
// RFC 3339. Internal code works with the embedded time.Time directly.
type DateTime struct {
	time.Time
}

// NewDateTime truncates t to second precision, matching the boundary layout.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t.Truncate(time.Second)}
}

// ParseDateTime parses s strictly against DateTimeLayout.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected format %q, got %q", ErrInvalidInput, DateTimeLayout, s)
	}
	return t, nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidInput)
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
