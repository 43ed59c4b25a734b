package flight

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/app/dto"
)

func FilterFlights(ctx context.Context, flights []dto.AwardFlight, filterOpts *dto.FilterOption) []dto.AwardFlight {
	if filterOpts == nil {
		return flights
	}

	results := make([]dto.AwardFlight, 0, len(flights))

	for _, flight := range flights {
		if filterOpts.MaxPoints != nil && flight.Points > *filterOpts.MaxPoints {
			continue
		}

		if filterOpts.MinPoints != nil && flight.Points < *filterOpts.MinPoints {
			continue
		}

		if filterOpts.MaxCashFee != nil && flight.CashFeeAmount() > *filterOpts.MaxCashFee {
			continue
		}

		if filterOpts.MaxStops != nil && flight.Stops > *filterOpts.MaxStops {
			continue
		}

		if filterOpts.FareName != nil &&
			!strings.Contains(strings.ToLower(flight.AirlineCabinClass), strings.ToLower(*filterOpts.FareName)) {
			continue
		}

		if filterOpts.DepartureTimeStart != nil && filterOpts.DepartureTimeEnd != nil {
			if !isWithinTimeRange(ctx, flight.DepartureTime(), *filterOpts.DepartureTimeStart, *filterOpts.DepartureTimeEnd) {
				continue
			}
		}

		results = append(results, flight)
	}

	return results
}

// targetTime, startTime and endTime are local "HH:MM" clock times of the
// departure airport; the window is inclusive on both ends.
func isWithinTimeRange(ctx context.Context, targetTime string, startTime string, endTime string) bool {
	target, err := time.Parse("15:04", targetTime)
	if err != nil {
		return false
	}

	start, err := time.Parse("15:04", startTime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse start time", slog.String("time", startTime), slog.Any("error", err))
		return false
	}

	end, err := time.Parse("15:04", endTime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse end time", slog.String("time", endTime), slog.Any("error", err))
		return false
	}

	return !target.Before(start) && !target.After(end)
}
