package models

import (
	"fmt"
	"time"
)

// Period keys used in the per-user accounting maps.
// Daily "2006-01-02", weekly "2006-W01" (ISO week), monthly "2006-01".

func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", key, time.UTC)
}
