package model

import (
	"strings"

	"github.com/guregu/null/v6"
)

// UnknownSector labels roster entries that carry no sector classification.
const UnknownSector = "Unknown"

// RosterEntry is one index constituent as listed by the roster source.
type RosterEntry struct {
	Symbol      string
	CompanyName string
	Sector      string
	DateAdded   null.Time
	Active      bool

	// Static attributes some roster sources carry alongside the constituent list.
	Headquarters null.String
	FoundedYear  null.Int
}

// Profile is descriptive company metadata. Every field is independently nullable.
type Profile struct {
	MarketCap    null.Int
	Headquarters null.String
	FoundedYear  null.Int
	Website      null.String
}

// IsZero reports whether no field of the profile is known.
func (p Profile) IsZero() bool {
	return !p.MarketCap.Valid && !p.Headquarters.Valid && !p.FoundedYear.Valid && !p.Website.Valid
}

// FormatHeadquarters joins location parts as "city, state, country" and trims
// separators left over from missing parts. An empty result is null.
func FormatHeadquarters(city, state, country string) null.String {
	hq := strings.Trim(city+", "+state+", "+country, ", ")
	return null.NewString(hq, hq != "")
}
