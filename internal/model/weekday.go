package model

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var weekdayNames = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// Weekday returns the localized day-of-week name of date, computed in UTC.
func Weekday(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return weekdayNames[t.Weekday()], nil
}

// NewReport builds a report for date with its weekday filled in.
func NewReport(date, content string) (Report, error) {
	wd, err := Weekday(date)
	if err != nil {
		return Report{}, err
	}
	return Report{Date: date, Weekday: wd, Content: content}, nil
}
