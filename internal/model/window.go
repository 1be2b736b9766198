package model

import (
	"fmt"
	"time"
)

// Window is the half-open date range [Start, End) a run collects.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses two DateLayout dates into a Window.
func ParseWindow(start, end string) (Window, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Window{}, fmt.Errorf("parse start date: %w", err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Window{}, fmt.Errorf("parse end date: %w", err)
	}
	if !s.Before(e) {
		return Window{}, fmt.Errorf("start date %s must be before end date %s", start, end)
	}
	return Window{Start: s, End: e}, nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Filter drops bars outside the window. The input order is preserved.
func (w Window) Filter(bars []OHLCV) []OHLCV {
	out := make([]OHLCV, 0, len(bars))
	for _, b := range bars {
		if w.Contains(b.Time) {
			out = append(out, b)
		}
	}
	return out
}

func (w Window) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}
