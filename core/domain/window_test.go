package domain

import (
	"testing"
	"time"

	coreerrors "paperfeed-engine/core/errors"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestNewAggregationWindow(t *testing.T) {
	w, err := NewAggregationWindow(fixedNow, 7, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)
	if !w.Cutoff.Equal(want) {
		t.Errorf("Cutoff = %v, want %v", w.Cutoff, want)
	}
	if !w.Cutoff.Before(w.Now) {
		t.Error("Cutoff should be before Now")
	}
	if !w.Admits(want) {
		t.Error("cutoff instant itself should be admitted")
	}
	if w.Admits(want.Add(-time.Second)) {
		t.Error("instant before cutoff should not be admitted")
	}
}

func TestNewAggregationWindow_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		daysBack int
		max      int
	}{
		{"zero days", 0, 5},
		{"negative days", -1, 5},
		{"zero max", 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAggregationWindow(fixedNow, tt.daysBack, tt.max)
			if !coreerrors.IsInvalidArgument(err) {
				t.Errorf("expected InvalidArgumentError, got %v", err)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name     string
		period   string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "last week",
			period:   "last-week",
			wantFrom: fixedNow.AddDate(0, 0, -7),
			wantTo:   fixedNow,
		},
		{
			name:     "last month",
			period:   "last-month",
			wantFrom: fixedNow.AddDate(0, 0, -30),
			wantTo:   fixedNow,
		},
		{
			name:     "custom range covers end day",
			period:   "2024-01-01, 2024-01-31",
			wantFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParsePeriod(tt.period, fixedNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !r.From.Equal(tt.wantFrom) {
				t.Errorf("From = %v, want %v", r.From, tt.wantFrom)
			}
			if !r.To.Equal(tt.wantTo) {
				t.Errorf("To = %v, want %v", r.To, tt.wantTo)
			}
		})
	}
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, period := range []string{"yesterday", "2024-01-01,nope", "2024-02-01,2024-01-01", ""} {
		t.Run(period, func(t *testing.T) {
			if _, err := ParsePeriod(period, fixedNow); !coreerrors.IsInvalidArgument(err) {
				t.Errorf("ParsePeriod(%q) error = %v, want InvalidArgumentError", period, err)
			}
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{From: fixedNow.Add(-time.Hour), To: fixedNow}

	if !r.Contains(fixedNow.Add(-30 * time.Minute)) {
		t.Error("expected instant inside range to be contained")
	}
	if r.Contains(fixedNow.Add(time.Minute)) {
		t.Error("expected instant after To to be excluded")
	}
	if r.Contains(fixedNow.Add(-2 * time.Hour)) {
		t.Error("expected instant before From to be excluded")
	}
	if !(DateRange{}).Contains(time.Time{}) {
		t.Error("open range should contain everything")
	}
	if !(DateRange{}).IsOpen() || r.IsOpen() {
		t.Error("IsOpen mismatch")
	}
}
