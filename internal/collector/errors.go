package collector

import (
	"errors"
	"fmt"
)

// ErrNoBars is returned when a provider has no bars for the requested window.
var ErrNoBars = errors.New("no bars in window")

// RosterUnavailable means the constituent roster could not be retrieved or parsed.
type RosterUnavailable struct {
	Source string
	Cause  error
}

func (e *RosterUnavailable) Error() string {
	return fmt.Sprintf("roster unavailable from %s: %v", e.Source, e.Cause)
}

func (e *RosterUnavailable) Unwrap() error { return e.Cause }

// SymbolFetchFailed means the primary price series of a symbol could not be fetched.
type SymbolFetchFailed struct {
	Symbol string
	Cause  error
}

func (e *SymbolFetchFailed) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Cause)
}

func (e *SymbolFetchFailed) Unwrap() error { return e.Cause }
