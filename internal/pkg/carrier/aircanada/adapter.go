// Package aircanada drives the Air Canada Aeroplan award search.
package aircanada

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/crawler"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/extract"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

const DefaultHomePageURL = "https://www.aircanada.com/us/en/aco/home.html"

type Config struct {
	HomePageURL string
	Extract     extract.Options
}

type Adapter struct {
	homePageURL string
	extractOpts extract.Options
}

var _ crawler.Adapter = (*Adapter)(nil)

func New(cfg Config) *Adapter {
	home := cfg.HomePageURL
	if home == "" {
		home = DefaultHomePageURL
	}

	return &Adapter{
		homePageURL: home,
		extractOpts: cfg.Extract,
	}
}

func (a *Adapter) Airline() award.Airline { return award.AirCanada }

func (a *Adapter) HomePageURL() string { return a.homePageURL }

// RequiresLogin is false: award availability is public on aircanada.com.
func (a *Adapter) RequiresLogin() bool { return false }

func (a *Adapter) SupportsCabin(cabin award.CabinClass) bool {
	_, ok := cabinCodes[cabin]
	return ok
}

func (a *Adapter) Login(context.Context, pagedriver.Driver, crawler.Credential) error {
	return nil
}

func (a *Adapter) SelectTripType(ctx context.Context, d pagedriver.Driver) error {
	return pagedriver.ClickWhen(ctx, d, onewayTab, pagedriver.Present, pagedriver.MediumWait)
}

func (a *Adapter) SelectMiles(ctx context.Context, d pagedriver.Driver) error {
	return pagedriver.ClickWhen(ctx, d, milesToggle, pagedriver.Present, pagedriver.MediumWait)
}

func (a *Adapter) SelectOrigin(ctx context.Context, d pagedriver.Driver, code string) error {
	if err := pagedriver.ClickWhen(ctx, d, originInput, pagedriver.Clickable, 2*pagedriver.MediumWait); err != nil {
		return fmt.Errorf("focus origin input: %w", err)
	}

	if err := d.Type(ctx, originInput, code); err != nil {
		return fmt.Errorf("type origin: %w", err)
	}

	return chooseSuggestion(ctx, d, originPanel, originOptions, code)
}

func (a *Adapter) SelectDestination(ctx context.Context, d pagedriver.Driver, code string) error {
	if err := pagedriver.ClickWhen(ctx, d, destinationInput, pagedriver.Visible, pagedriver.MediumWait); err != nil {
		return fmt.Errorf("focus destination input: %w", err)
	}

	if err := d.Type(ctx, destinationInput, code); err != nil {
		return fmt.Errorf("type destination: %w", err)
	}

	return chooseSuggestion(ctx, d, destinationPanel, destinationOpts, code)
}

// chooseSuggestion clicks the first autocomplete entry that names code. An
// empty list or a list without the code means the site does not serve the
// airport.
func chooseSuggestion(ctx context.Context, d pagedriver.Driver, panel, options pagedriver.Locator, code string) error {
	if err := d.Wait(ctx, panel, pagedriver.Visible, pagedriver.MediumWait); err != nil {
		return fmt.Errorf("autocomplete for %s: %w", code, err)
	}

	n, err := d.Count(ctx, options)
	if err != nil {
		return fmt.Errorf("count suggestions: %w", err)
	}

	for i := 0; i < n; i++ {
		option := options.Nth(i)

		text, err := pagedriver.TextOrEmpty(ctx, d, option)
		if err != nil {
			return fmt.Errorf("read suggestion %d: %w", i, err)
		}

		if !namesAirport(text, code) {
			continue
		}

		return pagedriver.ClickWhen(ctx, d, option.Within(optionMain), pagedriver.Clickable, pagedriver.MediumWait)
	}

	return &crawler.Error{
		Kind:    crawler.AirportNotSupported,
		Airline: award.AirCanada,
		Airport: code,
		Reason:  fmt.Sprintf("%d suggestions, none for the airport", n),
	}
}

func namesAirport(text, code string) bool {
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z')
	}) {
		if strings.EqualFold(field, code) {
			return true
		}
	}
	return false
}

func (a *Adapter) OpenDatePicker(ctx context.Context, d pagedriver.Driver) error {
	if err := pagedriver.ClickWhen(ctx, d, dateInput, pagedriver.Clickable, pagedriver.MediumWait); err != nil {
		return err
	}

	return d.Wait(ctx, nextMonthButton, pagedriver.Clickable, pagedriver.MediumWait)
}

func (a *Adapter) PickDate(ctx context.Context, d pagedriver.Driver, date time.Time) (bool, error) {
	cell := dateCell(date.Format(award.DateLayout))

	err := d.Wait(ctx, cell, pagedriver.Clickable, pagedriver.LowWait)
	if errors.Is(err, pagedriver.ErrTimeout) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := d.Click(ctx, cell); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Adapter) NextMonth(ctx context.Context, d pagedriver.Driver) error {
	return pagedriver.ClickWhen(ctx, d, nextMonthButton, pagedriver.Clickable, pagedriver.LowWait)
}

func (a *Adapter) DismissInterstitials(ctx context.Context, d pagedriver.Driver) error {
	shown, err := pagedriver.Exists(ctx, d, cookieBannerClose)
	if err != nil {
		return err
	}

	if !shown {
		return nil
	}

	slog.DebugContext(ctx, "closing cookie banner", slog.String("airline", string(award.AirCanada)))

	return d.Click(ctx, cookieBannerClose)
}

// Submit starts the search and gets past the Aeroplan rewards prompt that may
// follow it.
func (a *Adapter) Submit(ctx context.Context, d pagedriver.Driver) error {
	if err := pagedriver.ClickWhen(ctx, d, findButton, pagedriver.Clickable, pagedriver.MediumWait); err != nil {
		return fmt.Errorf("click find: %w", err)
	}

	err := pagedriver.ClickWhen(ctx, d, confirmRewards, pagedriver.Clickable, pagedriver.MediumWait)
	if errors.Is(err, pagedriver.ErrTimeout) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("confirm rewards: %w", err)
	}

	if err := pagedriver.ClickWhen(ctx, d, rewardsDialogClose, pagedriver.Clickable, pagedriver.HighestWait); err != nil {
		return fmt.Errorf("close rewards dialog: %w", err)
	}

	return nil
}

func (a *Adapter) AwaitResults(ctx context.Context, d pagedriver.Driver, timeout time.Duration) error {
	return d.Wait(ctx, resultRows, pagedriver.Visible, timeout)
}

func (a *Adapter) ExtractResults(ctx context.Context, d pagedriver.Driver, date time.Time, cabin award.CabinClass) iter.Seq2[award.Flight, error] {
	return extract.Run(ctx, &resultsPage{driver: d}, date, cabin, a.extractOpts)
}
