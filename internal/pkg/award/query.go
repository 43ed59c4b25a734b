package award

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical encoding of calendar dates.
const DateLayout = "2006-01-02"

var ErrInvalidQuery = errors.New("invalid query")

// Query is one award search. It can only be built through NewQuery or ParseQuery,
// so a Query value always satisfies its invariants.
type Query struct {
	origin        string
	destination   string
	departureDate time.Time
	cabinClass    CabinClass
}

// NewQuery validates and normalizes a query. today is the caller's notion of the
// current calendar date; only its year, month and day are used.
func NewQuery(origin, destination string, departureDate time.Time, cabin CabinClass, today time.Time) (Query, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	if !IsAirportCode(origin) {
		return Query{}, fmt.Errorf("%w: origin %q is not a 3-letter airport code", ErrInvalidQuery, origin)
	}

	if !IsAirportCode(destination) {
		return Query{}, fmt.Errorf("%w: destination %q is not a 3-letter airport code", ErrInvalidQuery, destination)
	}

	if origin == destination {
		return Query{}, fmt.Errorf("%w: origin and destination are both %s", ErrInvalidQuery, origin)
	}

	if !cabin.Valid() {
		return Query{}, fmt.Errorf("%w: unknown cabin class %q", ErrInvalidQuery, cabin)
	}

	date := CalendarDate(departureDate)
	if date.Before(CalendarDate(today)) {
		return Query{}, fmt.Errorf("%w: departure date %s is in the past", ErrInvalidQuery, date.Format(DateLayout))
	}

	return Query{
		origin:        origin,
		destination:   destination,
		departureDate: date,
		cabinClass:    cabin,
	}, nil
}

// ParseQuery is NewQuery for the string encodings: YYYY-MM-DD dates and canonical
// cabin class values.
func ParseQuery(origin, destination, departureDate, cabin string, today time.Time) (Query, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(departureDate))
	if err != nil {
		return Query{}, fmt.Errorf("%w: departure date %q is not YYYY-MM-DD", ErrInvalidQuery, departureDate)
	}

	cabinClass, ok := ParseCabinClass(cabin)
	if !ok {
		return Query{}, fmt.Errorf("%w: unknown cabin class %q", ErrInvalidQuery, cabin)
	}

	return NewQuery(origin, destination, date, cabinClass, today)
}

func (q Query) Origin() string { return q.origin }

func (q Query) Destination() string { return q.destination }

func (q Query) DepartureDate() time.Time { return q.departureDate }

func (q Query) CabinClass() CabinClass { return q.cabinClass }

func (q Query) IsZero() bool { return q.origin == "" }

func (q Query) String() string {
	return fmt.Sprintf("%s-%s %s %s", q.origin, q.destination, q.departureDate.Format(DateLayout), q.cabinClass)
}

// IsAirportCode reports whether s is exactly three ASCII letters.
func IsAirportCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// CalendarDate drops the clock and zone of t, keeping its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
