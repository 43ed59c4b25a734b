package crawler

import (
	"context"
	"iter"
	"math/rand/v2"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

// Adapter drives one carrier's booking site. The orchestrator calls the stage
// methods in a fixed order on a single driver; adapters keep no per-query state
// between calls.
//
// Stage methods should return pagedriver errors or a classified *Error. An
// *Error of kind AirportNotSupported or NoSearchResult is passed to the caller
// as is; anything else is classified by the stage that returned it.
type Adapter interface {
	Airline() award.Airline
	HomePageURL() string
	RequiresLogin() bool
	SupportsCabin(cabin award.CabinClass) bool

	Login(ctx context.Context, d pagedriver.Driver, cred Credential) error
	SelectTripType(ctx context.Context, d pagedriver.Driver) error
	SelectOrigin(ctx context.Context, d pagedriver.Driver, code string) error
	SelectDestination(ctx context.Context, d pagedriver.Driver, code string) error

	// OpenDatePicker shows the calendar. PickDate selects date when the
	// calendar page currently shown contains it and reports whether it did.
	// NextMonth moves the calendar forward one page.
	OpenDatePicker(ctx context.Context, d pagedriver.Driver) error
	PickDate(ctx context.Context, d pagedriver.Driver, date time.Time) (bool, error)
	NextMonth(ctx context.Context, d pagedriver.Driver) error

	SelectMiles(ctx context.Context, d pagedriver.Driver) error
	DismissInterstitials(ctx context.Context, d pagedriver.Driver) error
	Submit(ctx context.Context, d pagedriver.Driver) error
	AwaitResults(ctx context.Context, d pagedriver.Driver, timeout time.Duration) error

	ExtractResults(ctx context.Context, d pagedriver.Driver, date time.Time, cabin award.CabinClass) iter.Seq2[award.Flight, error]
}

// Credential is a loyalty account used by carriers that require login.
type Credential struct {
	Airline  award.Airline `json:"airline" mapstructure:"airline"`
	Username string        `json:"username" mapstructure:"username"`
	Password string        `json:"password" mapstructure:"password"`
}

func (c Credential) String() string {
	return string(c.Airline) + ":" + c.Username
}

type CredentialSource interface {
	Pick(airline award.Airline) (Credential, bool)
}

// Credentials picks a random account of the requested airline per run.
type Credentials []Credential

func (c Credentials) Pick(airline award.Airline) (Credential, bool) {
	var matching []Credential
	for _, cred := range c {
		if cred.Airline == airline {
			matching = append(matching, cred)
		}
	}

	if len(matching) == 0 {
		return Credential{}, false
	}
	return matching[rand.IntN(len(matching))], true
}
