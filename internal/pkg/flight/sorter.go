package flight

import (
	"cmp"
	"slices"

	"github.com/ijalalfrz/award-search-crawler/internal/app/dto"
)

// SortFlights orders flights by the requested field, best score first when no
// field is given. Ties keep their crawl order.
func SortFlights(flights []dto.AwardFlight, sortOption *dto.SortOption) []dto.AwardFlight {
	var (
		option = ""
		order  = "asc"
	)
	if sortOption != nil {
		option = sortOption.Field
		if sortOption.Order != "" {
			order = sortOption.Order
		}
	}

	var key func(a, b dto.AwardFlight) int
	switch option {
	case "points":
		key = func(a, b dto.AwardFlight) int { return cmp.Compare(a.Points, b.Points) }
	case "cash_fee":
		key = func(a, b dto.AwardFlight) int { return cmp.Compare(a.CashFeeAmount(), b.CashFeeAmount()) }
	case "stops":
		key = func(a, b dto.AwardFlight) int { return cmp.Compare(a.Stops, b.Stops) }
	case "departure_time":
		key = func(a, b dto.AwardFlight) int { return cmp.Compare(a.DepartureTime(), b.DepartureTime()) }
	default:
		key = func(a, b dto.AwardFlight) int { return cmp.Compare(a.Score, b.Score) }
	}

	slices.SortStableFunc(flights, func(a, b dto.AwardFlight) int {
		if order == "desc" {
			return key(b, a)
		}
		return key(a, b)
	})

	return flights
}
