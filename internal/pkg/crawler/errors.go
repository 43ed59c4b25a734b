package crawler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
)

// Kind classifies a crawl failure.
type Kind int

const (
	Unclassified Kind = iota
	AirportNotSupported
	OnewayNotSelectable
	MileNotSelectable
	OriginNotSelectable
	DestinationNotSelectable
	DepartureDateNotSelectable
	CannotContinueSearch
	NoSearchResult
	PointNotExtractable
	LoginFailed
	SessionUnavailable
	ExtractionFailed
)

var kindNames = map[Kind]string{
	Unclassified:               "Unclassified",
	AirportNotSupported:        "AirportNotSupported",
	OnewayNotSelectable:        "OnewayNotSelectable",
	MileNotSelectable:          "MileNotSelectable",
	OriginNotSelectable:        "OriginNotSelectable",
	DestinationNotSelectable:   "DestinationNotSelectable",
	DepartureDateNotSelectable: "DepartureDateNotSelectable",
	CannotContinueSearch:       "CannotContinueSearch",
	NoSearchResult:             "NoSearchResult",
	PointNotExtractable:        "PointNotExtractable",
	LoginFailed:                "LoginFailed",
	SessionUnavailable:         "SessionUnavailable",
	ExtractionFailed:           "ExtractionFailed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Definitive kinds are a negative answer from the carrier and resolve to an
// empty result.
func (k Kind) Definitive() bool {
	return k == AirportNotSupported || k == NoSearchResult
}

// Retryable reports whether a whole-run retry may clear the failure.
func (k Kind) Retryable() bool {
	switch k {
	case AirportNotSupported, NoSearchResult, LoginFailed, PointNotExtractable:
		return false
	default:
		return true
	}
}

// Error is a classified crawl failure. Only Kind is required; the other fields
// are filled in as far as they are known where the failure happened.
type Error struct {
	Kind    Kind
	Airline award.Airline
	Stage   Stage
	Airport string
	Date    time.Time
	Reason  string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.String())

	if e.Airline != "" {
		fmt.Fprintf(&b, " [%s]", e.Airline)
	}

	if e.Stage != "" {
		fmt.Fprintf(&b, " at %s", e.Stage)
	}

	if e.Airport != "" {
		fmt.Fprintf(&b, " airport=%s", e.Airport)
	}

	if !e.Date.IsZero() {
		fmt.Fprintf(&b, " date=%s", e.Date.Format(award.DateLayout))
	}

	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of the context carried.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrAirportNotSupported        = &Error{Kind: AirportNotSupported}
	ErrOnewayNotSelectable        = &Error{Kind: OnewayNotSelectable}
	ErrMileNotSelectable          = &Error{Kind: MileNotSelectable}
	ErrOriginNotSelectable        = &Error{Kind: OriginNotSelectable}
	ErrDestinationNotSelectable   = &Error{Kind: DestinationNotSelectable}
	ErrDepartureDateNotSelectable = &Error{Kind: DepartureDateNotSelectable}
	ErrCannotContinueSearch       = &Error{Kind: CannotContinueSearch}
	ErrNoSearchResult             = &Error{Kind: NoSearchResult}
	ErrPointNotExtractable        = &Error{Kind: PointNotExtractable}
	ErrLoginFailed                = &Error{Kind: LoginFailed}
	ErrSessionUnavailable         = &Error{Kind: SessionUnavailable}
	ErrExtractionFailed           = &Error{Kind: ExtractionFailed}

	ErrUnknownCarrier = errors.New("unknown carrier")
)

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Unclassified
}

// IsDefinitive reports whether err is a negative answer rather than a fault.
func IsDefinitive(err error) bool {
	return err != nil && KindOf(err).Definitive()
}
