package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxMonthAdvances = 12
	DefaultResultsTimeout   = pagedriver.HighestWait
)

var tracer = otel.Tracer("crawler")

// Stage names one step of a search, in the order the orchestrator runs them.
type Stage string

const (
	StageSession       Stage = "session"
	StageLogin         Stage = "login"
	StageTripType      Stage = "trip_type"
	StageOrigin        Stage = "origin"
	StageDestination   Stage = "destination"
	StageDate          Stage = "date"
	StageMiles         Stage = "miles"
	StageInterstitials Stage = "interstitials"
	StageSubmit        Stage = "submit"
	StageResults       Stage = "results"
	StageExtract       Stage = "extract"
)

var stageKinds = map[Stage]Kind{
	StageSession:       SessionUnavailable,
	StageLogin:         LoginFailed,
	StageTripType:      OnewayNotSelectable,
	StageOrigin:        OriginNotSelectable,
	StageDestination:   DestinationNotSelectable,
	StageDate:          DepartureDateNotSelectable,
	StageMiles:         MileNotSelectable,
	StageInterstitials: CannotContinueSearch,
	StageSubmit:        CannotContinueSearch,
	StageResults:       NoSearchResult,
	StageExtract:       ExtractionFailed,
}

// FailureKind is the kind a failure of s is reported as.
func (s Stage) FailureKind() Kind {
	return stageKinds[s]
}

type OrchestratorConfig struct {
	MaxMonthAdvances int
	ResultsTimeout   time.Duration
}

// Orchestrator walks an adapter through the search form. It holds only
// configuration; everything about a query is passed per call.
type Orchestrator struct {
	maxMonthAdvances int
	resultsTimeout   time.Duration
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	o := &Orchestrator{
		maxMonthAdvances: cfg.MaxMonthAdvances,
		resultsTimeout:   cfg.ResultsTimeout,
	}

	if o.maxMonthAdvances <= 0 {
		o.maxMonthAdvances = DefaultMaxMonthAdvances
	}

	if o.resultsTimeout <= 0 {
		o.resultsTimeout = DefaultResultsTimeout
	}

	return o
}

type step struct {
	stage Stage
	run   func(ctx context.Context) error
}

// Search runs every stage up to a rendered result list. cred is required only
// when the adapter requires login.
func (o *Orchestrator) Search(ctx context.Context, d pagedriver.Driver, a Adapter, q award.Query, cred *Credential) error {
	var steps []step

	if a.RequiresLogin() {
		steps = append(steps, step{StageLogin, func(ctx context.Context) error {
			if cred == nil {
				return &Error{Kind: LoginFailed, Reason: "no credential configured"}
			}
			return a.Login(ctx, d, *cred)
		}})
	}

	steps = append(steps,
		step{StageTripType, func(ctx context.Context) error {
			return a.SelectTripType(ctx, d)
		}},
		step{StageOrigin, func(ctx context.Context) error {
			return a.SelectOrigin(ctx, d, q.Origin())
		}},
		step{StageDestination, func(ctx context.Context) error {
			return a.SelectDestination(ctx, d, q.Destination())
		}},
		step{StageDate, func(ctx context.Context) error {
			return o.selectDate(ctx, d, a, q.DepartureDate())
		}},
		step{StageMiles, func(ctx context.Context) error {
			return a.SelectMiles(ctx, d)
		}},
		step{StageInterstitials, func(ctx context.Context) error {
			return a.DismissInterstitials(ctx, d)
		}},
		step{StageSubmit, func(ctx context.Context) error {
			return a.Submit(ctx, d)
		}},
		step{StageResults, func(ctx context.Context) error {
			return a.AwaitResults(ctx, d, o.resultsTimeout)
		}},
	)

	for _, s := range steps {
		if err := o.runStage(ctx, a.Airline(), q, s); err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) runStage(ctx context.Context, airline award.Airline, q award.Query, s step) error {
	ctx, span := tracer.Start(ctx, "crawler.stage/"+string(s.stage), trace.WithAttributes(
		attribute.String("airline", string(airline)),
		attribute.String("query", q.String()),
	))
	defer span.End()

	started := time.Now()

	err := s.run(ctx)
	if err == nil {
		slog.DebugContext(ctx, "stage completed",
			slog.String("airline", string(airline)),
			slog.String("stage", string(s.stage)),
			slog.Duration("elapsed", time.Since(started)))
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		span.SetStatus(codes.Error, "cancelled")
		return ctxErr
	}

	err = classify(s.stage, airline, q, err)

	span.RecordError(err)
	span.SetStatus(codes.Error, KindOf(err).String())

	slog.WarnContext(ctx, "stage failed",
		slog.String("airline", string(airline)),
		slog.String("stage", string(s.stage)),
		slog.String("kind", KindOf(err).String()),
		slog.String("error", err.Error()))

	return err
}

// selectDate pages through the calendar until the adapter finds the date,
// giving up after maxMonthAdvances pages.
func (o *Orchestrator) selectDate(ctx context.Context, d pagedriver.Driver, a Adapter, date time.Time) error {
	if err := a.OpenDatePicker(ctx, d); err != nil {
		return fmt.Errorf("open date picker: %w", err)
	}

	for advances := 0; ; advances++ {
		picked, err := a.PickDate(ctx, d, date)
		if err != nil {
			return fmt.Errorf("pick date: %w", err)
		}

		if picked {
			return nil
		}

		if advances >= o.maxMonthAdvances {
			return &Error{
				Kind:   DepartureDateNotSelectable,
				Reason: fmt.Sprintf("date not shown after %d month advances", advances),
			}
		}

		if err := a.NextMonth(ctx, d); err != nil {
			return fmt.Errorf("advance month: %w", err)
		}
	}
}

// classify turns a stage failure into a *Error of the stage's kind, keeping
// definitive answers and errors the adapter already gave the right kind.
func classify(stage Stage, airline award.Airline, q award.Query, err error) error {
	kind := stage.FailureKind()

	var out *Error

	var ce *Error
	if errors.As(err, &ce) && (ce.Kind.Definitive() || ce.Kind == kind) {
		copied := *ce
		out = &copied
	} else {
		// a result list that never renders is an empty answer; anything else
		// on that stage means the page broke
		if stage == StageResults && !errors.Is(err, pagedriver.ErrTimeout) && !errors.Is(err, pagedriver.ErrNotFound) {
			kind = CannotContinueSearch
		}
		out = &Error{Kind: kind, Cause: err}
	}

	if out.Airline == "" {
		out.Airline = airline
	}

	if out.Stage == "" {
		out.Stage = stage
	}

	switch {
	case stage == StageOrigin && out.Airport == "":
		out.Airport = q.Origin()
	case stage == StageDestination && out.Airport == "":
		out.Airport = q.Destination()
	case stage == StageDate && out.Date.IsZero():
		out.Date = q.DepartureDate()
	}

	return out
}
