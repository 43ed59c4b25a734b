// Package extract turns a rendered result list into award flights, one per
// fare offered on each row for the requested cabin.
package extract

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/crawler"
)

// RawFare is a fare column as rendered, before normalisation.
type RawFare struct {
	Name        string
	PointsText  string
	CashFeeText string
}

// RawSegment is one leg of a row's detail view as rendered. Offsets hold the
// day-offset marker text, empty when the page shows none.
type RawSegment struct {
	OriginText      string
	OriginCity      string
	DestinationText string
	DestinationCity string

	DepartureTime     string
	DepartureOffset   string
	DepartureTimezone string
	ArrivalTime       string
	ArrivalOffset     string
	ArrivalTimezone   string
	Duration          string
	Aircraft          string
	FlightNumber      string
	CarrierText       string
}

// ResultsPage reads a carrier's result list. Rows are addressed by their
// rendered index, starting at 0.
type ResultsPage interface {
	// CabinColumns lists the cabins the result list has columns for.
	CabinColumns(ctx context.Context) ([]award.CabinClass, error)
	Rows(ctx context.Context) (int, error)
	// OpenCabin expands the row's fare list for cabin. It reports false when
	// the row does not sell that cabin.
	OpenCabin(ctx context.Context, row int, cabin award.CabinClass) (bool, error)
	Fares(ctx context.Context, row int) ([]RawFare, error)
	// Segments opens the row's detail view, reads it and closes it again.
	Segments(ctx context.Context, row int) ([]RawSegment, error)
}

type DetailFailurePolicy int

const (
	// DetailFailureAbort fails the whole query when a row's detail view
	// cannot be read.
	DetailFailureAbort DetailFailurePolicy = iota
	// DetailFailureSkipRow logs the failure and moves on to the next row.
	DetailFailureSkipRow
)

type Options struct {
	DetailFailure DetailFailurePolicy
}

// Run walks the result rows in order and yields one flight per usable fare.
// It stops at the first error it yields and as soon as the consumer stops.
func Run(ctx context.Context, page ResultsPage, departureDate time.Time, cabin award.CabinClass, opts Options) iter.Seq2[award.Flight, error] {
	return func(yield func(award.Flight, error) bool) {
		columns, err := page.CabinColumns(ctx)
		if err != nil {
			yield(award.Flight{}, fmt.Errorf("read cabin columns: %w", err))
			return
		}

		if !slices.Contains(columns, cabin) {
			yield(award.Flight{}, &crawler.Error{
				Kind:   crawler.NoSearchResult,
				Stage:  crawler.StageExtract,
				Reason: fmt.Sprintf("cabin %s not offered", cabin),
			})
			return
		}

		rows, err := page.Rows(ctx)
		if err != nil {
			yield(award.Flight{}, fmt.Errorf("count result rows: %w", err))
			return
		}

		slog.InfoContext(ctx, "extracting results",
			slog.Int("rows", rows),
			slog.String("cabin", cabin.String()))

		for row := 0; row < rows; row++ {
			if err := ctx.Err(); err != nil {
				yield(award.Flight{}, err)
				return
			}

			flights, err := extractRow(ctx, page, row, departureDate, cabin, opts)
			if err != nil {
				yield(award.Flight{}, err)
				return
			}

			for _, f := range flights {
				if !yield(f, nil) {
					return
				}
			}
		}
	}
}

func extractRow(
	ctx context.Context,
	page ResultsPage,
	row int,
	departureDate time.Time,
	cabin award.CabinClass,
	opts Options,
) ([]award.Flight, error) {
	opened, err := page.OpenCabin(ctx, row, cabin)
	if err != nil {
		return nil, fmt.Errorf("row %d: open cabin %s: %w", row, cabin, err)
	}

	if !opened {
		slog.DebugContext(ctx, "cabin not sold on row", slog.Int("row", row))
		return nil, nil
	}

	rawFares, err := page.Fares(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("row %d: read fares: %w", row, err)
	}

	fares := normalizeFares(ctx, row, rawFares)
	if len(fares) == 0 {
		slog.DebugContext(ctx, "row has no usable fare", slog.Int("row", row))
		return nil, nil
	}

	segments, err := readSegments(ctx, page, row, departureDate)
	if err != nil {
		if opts.DetailFailure == DetailFailureSkipRow && ctx.Err() == nil {
			slog.WarnContext(ctx, "skipping row with unreadable details",
				slog.Int("row", row),
				slog.String("error", err.Error()))
			return nil, nil
		}
		return nil, err
	}

	flights := make([]award.Flight, 0, len(fares))
	for _, fare := range fares {
		flights = append(flights, award.NewFlight(cabin, fare, segments))
	}

	return flights, nil
}

func normalizeFares(ctx context.Context, row int, raw []RawFare) []award.FareOffer {
	fares := make([]award.FareOffer, 0, len(raw))

	for _, rf := range raw {
		points, err := award.ParsePoints(rf.PointsText)
		if err != nil {
			err = &crawler.Error{Kind: crawler.PointNotExtractable, Stage: crawler.StageExtract, Cause: err}
			slog.DebugContext(ctx, "skipping fare",
				slog.Int("row", row),
				slog.String("fare", rf.Name),
				slog.String("error", err.Error()))
			continue
		}

		fares = append(fares, award.FareOffer{
			Name:    award.NormalizeText(rf.Name),
			Points:  points,
			CashFee: award.ParseCashFee(rf.CashFeeText),
		})
	}

	return fares
}

var errNoSegments = errors.New("detail view lists no segments")

func readSegments(ctx context.Context, page ResultsPage, row int, departureDate time.Time) ([]award.FlightSegment, error) {
	raw, err := page.Segments(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("row %d: read details: %w", row, err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("row %d: %w", row, errNoSegments)
	}

	segments := make([]award.FlightSegment, 0, len(raw))
	for i, rs := range raw {
		seg, err := NormalizeSegment(rs, departureDate)
		if err != nil {
			return nil, fmt.Errorf("row %d segment %d: %w", row, i, err)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

// NormalizeSegment resolves a rendered leg against the queried departure
// date. A leg without a day-offset marker falls on the departure date.
func NormalizeSegment(rs RawSegment, departureDate time.Time) (award.FlightSegment, error) {
	depOffset, err := award.ParseDayOffset(rs.DepartureOffset)
	if err != nil {
		return award.FlightSegment{}, fmt.Errorf("departure offset: %w", err)
	}

	arrOffset, err := award.ParseDayOffset(rs.ArrivalOffset)
	if err != nil {
		return award.FlightSegment{}, fmt.Errorf("arrival offset: %w", err)
	}

	date := award.CalendarDate(departureDate)

	seg := award.FlightSegment{
		Origin:            award.StripCity(rs.OriginText, rs.OriginCity),
		Destination:       award.StripCity(rs.DestinationText, rs.DestinationCity),
		DepartureDate:     date.AddDate(0, 0, depOffset).Format(award.DateLayout),
		DepartureTime:     award.NormalizeText(rs.DepartureTime),
		DepartureTimezone: award.NormalizeText(rs.DepartureTimezone),
		ArrivalDate:       date.AddDate(0, 0, arrOffset).Format(award.DateLayout),
		ArrivalTime:       award.NormalizeText(rs.ArrivalTime),
		ArrivalTimezone:   award.NormalizeText(rs.ArrivalTimezone),
		Duration:          award.NormalizeText(rs.Duration),
		Aircraft:          award.NormalizeText(rs.Aircraft),
		FlightNumber:      award.NormalizeText(rs.FlightNumber),
		Carrier:           award.NormalizeCarrier(rs.CarrierText),
	}

	if !award.IsAirportCode(seg.Origin) || !award.IsAirportCode(seg.Destination) {
		return award.FlightSegment{}, fmt.Errorf("no airport code in %q -> %q", rs.OriginText, rs.DestinationText)
	}

	return seg, nil
}
