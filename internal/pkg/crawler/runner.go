package crawler

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/logger"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/session"
)

const DefaultMaxAttempts = 2

// SessionOpener opens a browser session on a carrier's home page.
type SessionOpener interface {
	Open(ctx context.Context, homeURL string) (*session.Handle, error)
}

type RunnerConfig struct {
	MaxAttempts  int
	RetryBackoff time.Duration
}

// Runner executes whole queries: validation, session, stages, extraction and
// the retry policy around them. It is safe for concurrent use; every run gets
// its own session.
type Runner struct {
	registry     *Registry
	sessions     SessionOpener
	orchestrator *Orchestrator
	credentials  CredentialSource
	maxAttempts  int
	backoff      time.Duration
	now          func() time.Time
}

func NewRunner(registry *Registry, sessions SessionOpener, orchestrator *Orchestrator, credentials CredentialSource, cfg RunnerConfig) *Runner {
	r := &Runner{
		registry:     registry,
		sessions:     sessions,
		orchestrator: orchestrator,
		credentials:  credentials,
		maxAttempts:  cfg.MaxAttempts,
		backoff:      cfg.RetryBackoff,
		now:          time.Now,
	}

	if r.maxAttempts <= 0 {
		r.maxAttempts = DefaultMaxAttempts
	}

	if r.credentials == nil {
		r.credentials = Credentials(nil)
	}

	return r
}

// Run validates the string form of a query and runs it. Invalid input yields a
// single error wrapping award.ErrInvalidQuery before any session is opened.
func (r *Runner) Run(ctx context.Context, airline, origin, destination, departureDate, cabin string) iter.Seq2[award.Flight, error] {
	al, ok := award.ParseAirline(airline)
	if !ok {
		return single(fmt.Errorf("%w: %w %q", award.ErrInvalidQuery, ErrUnknownCarrier, airline))
	}

	q, err := award.ParseQuery(origin, destination, departureDate, cabin, r.now())
	if err != nil {
		return single(err)
	}

	return r.RunQuery(ctx, al, q)
}

// RunQuery searches one carrier for q. The sequence is empty when the carrier
// has no offer, holds the flights found otherwise, and ends with at most one
// error. Breaking out of the loop stops the crawl and releases the session.
func (r *Runner) RunQuery(ctx context.Context, airline award.Airline, q award.Query) iter.Seq2[award.Flight, error] {
	return func(yield func(award.Flight, error) bool) {
		if q.IsZero() {
			yield(award.Flight{}, fmt.Errorf("%w: empty query", award.ErrInvalidQuery))
			return
		}

		adapter, ok := r.registry.Get(airline)
		if !ok {
			yield(award.Flight{}, fmt.Errorf("%w: %w %q", award.ErrInvalidQuery, ErrUnknownCarrier, airline))
			return
		}

		ctx := logger.WithRunID(ctx, uuid.New().String())

		if !airline.Sells(q.CabinClass()) || !adapter.SupportsCabin(q.CabinClass()) {
			slog.InfoContext(ctx, "cabin not offered by carrier",
				slog.String("airline", string(airline)),
				slog.String("cabin", q.CabinClass().String()))
			return
		}

		for attempt := 1; attempt <= r.maxAttempts; attempt++ {
			yielded, stopped, err := r.attempt(ctx, adapter, q, attempt, yield)
			if stopped || err == nil {
				return
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(award.Flight{}, ctxErr)
				return
			}

			if IsDefinitive(err) {
				slog.InfoContext(ctx, "carrier has no offer",
					slog.String("airline", string(airline)),
					slog.String("query", q.String()),
					slog.String("kind", KindOf(err).String()))
				return
			}

			if yielded > 0 || !KindOf(err).Retryable() || attempt == r.maxAttempts {
				slog.ErrorContext(ctx, "crawl failed",
					slog.String("airline", string(airline)),
					slog.Int("attempt", attempt),
					slog.Int("yielded", yielded),
					slog.String("error", err.Error()))
				yield(award.Flight{}, err)
				return
			}

			slog.WarnContext(ctx, "retrying crawl",
				slog.String("airline", string(airline)),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", r.backoff),
				slog.String("error", err.Error()))

			if err := sleep(ctx, r.backoff); err != nil {
				yield(award.Flight{}, err)
				return
			}
		}
	}
}

// attempt runs one session from open to close. stopped is set when the
// consumer stopped iterating.
func (r *Runner) attempt(
	ctx context.Context,
	adapter Adapter,
	q award.Query,
	attempt int,
	yield func(award.Flight, error) bool,
) (yielded int, stopped bool, err error) {
	airline := adapter.Airline()

	slog.InfoContext(ctx, "starting crawl",
		slog.String("airline", string(airline)),
		slog.String("query", q.String()),
		slog.Int("attempt", attempt))

	var cred *Credential
	if adapter.RequiresLogin() {
		c, ok := r.credentials.Pick(airline)
		if !ok {
			return 0, false, &Error{Kind: LoginFailed, Airline: airline, Stage: StageLogin, Reason: "no credential configured"}
		}
		cred = &c
	}

	h, err := r.sessions.Open(ctx, adapter.HomePageURL())
	if err != nil {
		return 0, false, &Error{Kind: SessionUnavailable, Airline: airline, Stage: StageSession, Cause: err}
	}

	defer func() {
		if closeErr := h.Close(); closeErr != nil {
			slog.WarnContext(ctx, "close session",
				slog.String("session_id", h.ID),
				slog.String("error", closeErr.Error()))
		}
	}()

	if err := r.orchestrator.Search(ctx, h.Driver, adapter, q, cred); err != nil {
		return 0, false, err
	}

	for f, err := range adapter.ExtractResults(ctx, h.Driver, q.DepartureDate(), q.CabinClass()) {
		if err != nil {
			return yielded, false, extractionError(airline, err)
		}

		if !yield(f, nil) {
			return yielded, true, nil
		}
		yielded++
	}

	slog.InfoContext(ctx, "crawl finished",
		slog.String("airline", string(airline)),
		slog.Int("attempt", attempt),
		slog.Int("flights", yielded))

	return yielded, false, nil
}

func extractionError(airline award.Airline, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var ce *Error
	if errors.As(err, &ce) {
		out := *ce
		if out.Airline == "" {
			out.Airline = airline
		}
		if out.Stage == "" {
			out.Stage = StageExtract
		}
		return &out
	}

	return &Error{Kind: ExtractionFailed, Airline: airline, Stage: StageExtract, Cause: err}
}

func single(err error) iter.Seq2[award.Flight, error] {
	return func(yield func(award.Flight, error) bool) {
		yield(award.Flight{}, err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
