package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // IANA names must resolve on hosts without a zoneinfo database
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrUnknownZone = errors.New("unknown timezone")
	ErrEmptyRange  = errors.New("start boundary is not before end boundary")
)

// MinTime and MaxTime are the defaults when a boundary is omitted.
var (
	MinTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

// layouts accepted for naive dates, most specific first.
var layouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Boundary is one end of a range. Instant is always in UTC; Zone records the
// zone the caller localized the date in.
type Boundary struct {
	Instant time.Time
	Zone    *time.Location
}

// String renders the boundary in its original zone.
func (b Boundary) String() string {
	if b.Zone == nil {
		return b.Instant.Format(time.RFC3339)
	}
	return b.Instant.In(b.Zone).Format(time.RFC3339)
}

// Parse localizes a naive ISO-8601 date in the named IANA zone and returns the
// boundary normalized to UTC.
func Parse(date, zone string) (Boundary, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return Boundary{}, err
	}
	date = strings.TrimSpace(date)
	if _, err := time.Parse(time.RFC3339Nano, date); err == nil {
		return Boundary{}, fmt.Errorf("%w: %q carries its own UTC offset; pass a naive date and a timezone", ErrInvalidDate, date)
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, date, loc)
		if err == nil {
			return Boundary{Instant: t.UTC(), Zone: loc}, nil
		}
	}
	return Boundary{}, fmt.Errorf("%w: %q is not an ISO-8601 date (want YYYY-MM-DD[THH:MM[:SS]])", ErrInvalidDate, date)
}

// LoadZone resolves an IANA timezone name.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownZone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	return loc, nil
}

// Range is the half-open interval [Since, Until) in UTC.
type Range struct {
	Since time.Time
	Until time.Time
}

// Unbounded selects every instant.
func Unbounded() Range {
	return Range{Since: MinTime, Until: MaxTime}
}

// New builds a range from optional boundaries; a nil boundary takes the
// corresponding default.
func New(since, until *Boundary) (Range, error) {
	r := Unbounded()
	if since != nil {
		r.Since = since.Instant.UTC()
	}
	if until != nil {
		r.Until = until.Instant.UTC()
	}
	if !r.Since.Before(r.Until) {
		return Range{}, fmt.Errorf("%w: %s >= %s", ErrEmptyRange,
			r.Since.Format(time.RFC3339), r.Until.Format(time.RFC3339))
	}
	return r, nil
}

// Contains reports whether t lies in [Since, Until). t is compared in UTC.
func (r Range) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(r.Since) && t.Before(r.Until)
}
