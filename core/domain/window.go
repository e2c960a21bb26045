// ABOUTME: Time windows used to select recent articles
// ABOUTME: AggregationWindow drives per-publication aggregation, DateRange drives merged feeds

package domain

import (
	"strings"
	"time"

	coreerrors "paperfeed-engine/core/errors"
)

// AggregationWindow bounds an aggregation run. Cutoff is always before Now.
type AggregationWindow struct {
	Cutoff            time.Time
	Now               time.Time
	MaxPerPublication int
}

// NewAggregationWindow builds a window reaching daysBack days before now
func NewAggregationWindow(now time.Time, daysBack, maxPerPublication int) (AggregationWindow, error) {
	if daysBack <= 0 {
		return AggregationWindow{}, &coreerrors.InvalidArgumentError{Field: "daysBack", Message: "must be positive"}
	}
	if maxPerPublication <= 0 {
		return AggregationWindow{}, &coreerrors.InvalidArgumentError{Field: "maxPerPublication", Message: "must be positive"}
	}
	now = now.UTC()
	return AggregationWindow{
		Cutoff:            now.AddDate(0, 0, -daysBack),
		Now:               now,
		MaxPerPublication: maxPerPublication,
	}, nil
}

// Admits reports whether t falls on or after the cutoff
func (w AggregationWindow) Admits(t time.Time) bool {
	return !t.Before(w.Cutoff)
}

// DateRange is an inclusive time range; a zero bound is open
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsOpen reports whether neither bound is set
func (r DateRange) IsOpen() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether t lies inside the range
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Named periods accepted by ParsePeriod.
const (
	PeriodLastWeek  = "last-week"
	PeriodLastMonth = "last-month"
)

const periodDateLayout = "2006-01-02"

// ParsePeriod turns "last-week", "last-month" or "YYYY-MM-DD,YYYY-MM-DD" into a range.
// A custom range covers the whole of its end day.
func ParsePeriod(period string, now time.Time) (DateRange, error) {
	now = now.UTC()
	switch period = strings.TrimSpace(period); {
	case period == PeriodLastWeek:
		return DateRange{From: now.AddDate(0, 0, -7), To: now}, nil
	case period == PeriodLastMonth:
		return DateRange{From: now.AddDate(0, 0, -30), To: now}, nil
	case strings.Contains(period, ","):
		startStr, endStr, _ := strings.Cut(period, ",")
		start, err := time.Parse(periodDateLayout, strings.TrimSpace(startStr))
		if err != nil {
			return DateRange{}, invalidPeriod(period)
		}
		end, err := time.Parse(periodDateLayout, strings.TrimSpace(endStr))
		if err != nil {
			return DateRange{}, invalidPeriod(period)
		}
		if end.Before(start) {
			return DateRange{}, &coreerrors.InvalidArgumentError{Field: "period", Message: "end date is before start date"}
		}
		return DateRange{From: start, To: end.Add(24*time.Hour - time.Nanosecond)}, nil
	default:
		return DateRange{}, &coreerrors.InvalidArgumentError{Field: "period", Message: "unknown period " + period}
	}
}

func invalidPeriod(period string) error {
	return &coreerrors.InvalidArgumentError{
		Field:   "period",
		Message: "invalid date range " + period + ", use YYYY-MM-DD,YYYY-MM-DD",
	}
}
