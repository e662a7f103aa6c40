package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

const DateLayout = "2006-01-02"

// Accepted input layouts, tried in order. The time of day, if any, is dropped.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"20060102",
}

// Date is a calendar day. The zero value is not a valid day.
type Date struct {
	t time.Time // always UTC midnight
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf takes the wall-clock day of t without shifting zones.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	v := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

// DaysUntil returns the number of whole days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

func (d Date) String() string { return d.t.Format(DateLayout) }
