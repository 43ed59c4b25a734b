package crawler

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

// fakeAdapter records the stage calls it receives. Every behaviour is opt-in;
// the zero value walks through all stages and extracts nothing.
type fakeAdapter struct {
	airline       award.Airline
	requiresLogin bool
	noCabins      []award.CabinClass

	// failures returned by stage methods, keyed by stage
	stageErr map[Stage]error
	// hook run at the start of every stage call
	onStage func(ctx context.Context, stage Stage) error

	// number of NextMonth calls before PickDate reports the date; negative
	// means never
	monthsUntilDate int

	flights    []award.Flight
	extractErr error
	// extractPanic makes ExtractResults panic after yielding its flights
	extractPanic bool

	mu        sync.Mutex
	calls     []string
	advances  int
	logins    []Credential
	extracted int
}

func newFakeAdapter(airline award.Airline) *fakeAdapter {
	return &fakeAdapter{
		airline:  airline,
		stageErr: make(map[Stage]error),
	}
}

func (a *fakeAdapter) record(ctx context.Context, name string, stage Stage) error {
	a.mu.Lock()
	a.calls = append(a.calls, name)
	a.mu.Unlock()

	if a.onStage != nil {
		if err := a.onStage(ctx, stage); err != nil {
			return err
		}
	}
	return a.stageErr[stage]
}

func (a *fakeAdapter) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *fakeAdapter) count(name string) int {
	n := 0
	for _, c := range a.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (a *fakeAdapter) Airline() award.Airline { return a.airline }

func (a *fakeAdapter) HomePageURL() string { return "https://" + string(a.airline) + ".example.test/" }

func (a *fakeAdapter) RequiresLogin() bool { return a.requiresLogin }

func (a *fakeAdapter) SupportsCabin(cabin award.CabinClass) bool {
	for _, c := range a.noCabins {
		if c == cabin {
			return false
		}
	}
	return true
}

func (a *fakeAdapter) Login(ctx context.Context, _ pagedriver.Driver, cred Credential) error {
	a.mu.Lock()
	a.logins = append(a.logins, cred)
	a.mu.Unlock()
	return a.record(ctx, "Login", StageLogin)
}

func (a *fakeAdapter) SelectTripType(ctx context.Context, _ pagedriver.Driver) error {
	return a.record(ctx, "SelectTripType", StageTripType)
}

func (a *fakeAdapter) SelectOrigin(ctx context.Context, _ pagedriver.Driver, _ string) error {
	return a.record(ctx, "SelectOrigin", StageOrigin)
}

func (a *fakeAdapter) SelectDestination(ctx context.Context, _ pagedriver.Driver, _ string) error {
	return a.record(ctx, "SelectDestination", StageDestination)
}

func (a *fakeAdapter) OpenDatePicker(ctx context.Context, _ pagedriver.Driver) error {
	a.mu.Lock()
	a.advances = 0
	a.mu.Unlock()
	return a.record(ctx, "OpenDatePicker", StageDate)
}

func (a *fakeAdapter) PickDate(ctx context.Context, _ pagedriver.Driver, _ time.Time) (bool, error) {
	a.mu.Lock()
	a.calls = append(a.calls, "PickDate")
	picked := a.monthsUntilDate >= 0 && a.advances >= a.monthsUntilDate
	a.mu.Unlock()
	return picked, nil
}

func (a *fakeAdapter) NextMonth(_ context.Context, _ pagedriver.Driver) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "NextMonth")
	a.advances++
	return nil
}

func (a *fakeAdapter) SelectMiles(ctx context.Context, _ pagedriver.Driver) error {
	return a.record(ctx, "SelectMiles", StageMiles)
}

func (a *fakeAdapter) DismissInterstitials(ctx context.Context, _ pagedriver.Driver) error {
	return a.record(ctx, "DismissInterstitials", StageInterstitials)
}

func (a *fakeAdapter) Submit(ctx context.Context, _ pagedriver.Driver) error {
	return a.record(ctx, "Submit", StageSubmit)
}

func (a *fakeAdapter) AwaitResults(ctx context.Context, _ pagedriver.Driver, _ time.Duration) error {
	return a.record(ctx, "AwaitResults", StageResults)
}

func (a *fakeAdapter) ExtractResults(_ context.Context, _ pagedriver.Driver, _ time.Time, _ award.CabinClass) iter.Seq2[award.Flight, error] {
	return func(yield func(award.Flight, error) bool) {
		for _, f := range a.flights {
			a.mu.Lock()
			a.extracted++
			a.mu.Unlock()

			if !yield(f, nil) {
				return
			}
		}

		if a.extractPanic {
			panic("extraction exploded")
		}

		if a.extractErr != nil {
			yield(award.Flight{}, a.extractErr)
		}
	}
}
