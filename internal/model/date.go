package model

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form; the string order is the
// chronological order.
type Date string

func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return Date(t.Format(DateLayout)), nil
}

func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func Today() Date {
	return DateOf(time.Now())
}

func (d Date) String() string {
	return string(d)
}
