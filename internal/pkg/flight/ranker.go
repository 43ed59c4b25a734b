package flight

import (
	"math"

	"github.com/ijalalfrz/award-search-crawler/internal/app/dto"
)

// weighted scoring using normalization
// ref: https://www.1000minds.com/decision-making/what-is-mcdm-mcda

// weights for each criteria
const (
	WeightPoints  = 0.6
	WeightCashFee = 0.25
	WeightStops   = 0.15
)

// RankFlights scores every flight between 0 (best) and 1 (worst) on points,
// cash co-pay and stops, each normalised over the result set.
func RankFlights(flights []dto.AwardFlight) []dto.AwardFlight {
	pointsMin, pointsMax := valueRange(flights, func(f dto.AwardFlight) float64 { return f.Points })
	feeMin, feeMax := valueRange(flights, dto.AwardFlight.CashFeeAmount)
	stopsMin, stopsMax := valueRange(flights, func(f dto.AwardFlight) float64 { return float64(f.Stops) })

	for i, flight := range flights {
		flights[i].Score = WeightPoints*normalizeValue(flight.Points, pointsMin, pointsMax) +
			WeightCashFee*normalizeValue(flight.CashFeeAmount(), feeMin, feeMax) +
			WeightStops*normalizeValue(float64(flight.Stops), stopsMin, stopsMax)
	}

	return flights
}

func valueRange(flights []dto.AwardFlight, value func(dto.AwardFlight) float64) (float64, float64) {
	if len(flights) == 0 {
		return 0, 0
	}

	lo := math.MaxFloat64
	hi := -math.MaxFloat64
	for _, flight := range flights {
		v := value(flight)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func normalizeValue(value float64, min float64, max float64) float64 {
	if max == min {
		return 0
	}

	return (value - min) / (max - min)
}
