package award

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery_Closure(t *testing.T) {
	today := time.Date(2026, time.October, 15, 18, 30, 0, 0, time.UTC)

	newQueryRequest := func(origin, destination string, date time.Time, cabin CabinClass, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			q, err := NewQuery(origin, destination, date, cabin, today)
			if wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuery)
				assert.True(t, q.IsZero())
				return
			}

			require.NoError(t, err)
			assert.Len(t, q.Origin(), 3)
			assert.Len(t, q.Destination(), 3)
			assert.NotEqual(t, q.Origin(), q.Destination())
		}
	}

	in14 := today.AddDate(0, 0, 14)

	t.Run("valid", newQueryRequest("JFK", "LHR", in14, Economy, false))
	t.Run("lower_case_codes", newQueryRequest("jfk", "lhr", in14, Business, false))
	t.Run("today_is_allowed", newQueryRequest("JFK", "LHR", today.Add(-10*time.Hour), First, false))
	t.Run("same_airport", newQueryRequest("JFK", "jfk", in14, Economy, true))
	t.Run("short_code", newQueryRequest("JF", "LHR", in14, Economy, true))
	t.Run("numeric_code", newQueryRequest("JF1", "LHR", in14, Economy, true))
	t.Run("long_code", newQueryRequest("JFKX", "LHR", in14, Economy, true))
	t.Run("past_date", newQueryRequest("JFK", "LHR", today.AddDate(0, 0, -1), Economy, true))
	t.Run("unknown_cabin", newQueryRequest("JFK", "LHR", in14, CabinClass("coach"), true))
}

func TestParseQuery_Closure(t *testing.T) {
	today := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)

	parseQueryRequest := func(date, cabin string, wantCabin CabinClass, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			q, err := ParseQuery("YVR", "YYZ", date, cabin, today)
			if wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuery)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, wantCabin, q.CabinClass())
			assert.Equal(t, date, q.DepartureDate().Format(DateLayout))
		}
	}

	t.Run("economy", parseQueryRequest("2026-11-01", "economy", Economy, false))
	t.Run("premium_economy", parseQueryRequest("2026-11-01", "premium_economy", PremiumEconomy, false))
	t.Run("premium_hyphen", parseQueryRequest("2026-11-01", "Premium-Economy", PremiumEconomy, false))
	t.Run("bad_date", parseQueryRequest("01/11/2026", "economy", "", true))
	t.Run("bad_cabin", parseQueryRequest("2026-11-01", "coach", "", true))
}

func TestNewFlight(t *testing.T) {
	segments := []FlightSegment{
		{Origin: "JFK", Destination: "YYZ"},
		{Origin: "YYZ", Destination: "LHR"},
	}

	f := NewFlight(Economy, FareOffer{Name: "Flex", Points: 45000}, segments)

	assert.Equal(t, "JFK", f.Origin)
	assert.Equal(t, "LHR", f.Destination)
	assert.Equal(t, 1, f.Stops())
	assert.Nil(t, f.CashFee)
}

func TestAirline_Sells(t *testing.T) {
	sellsRequest := func(a Airline, cabin CabinClass, want bool) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, want, a.Sells(cabin))
		}
	}

	t.Run("ac_first", sellsRequest(AirCanada, First, true))
	t.Run("vs_first", sellsRequest(VirginAtlantic, First, false))
	t.Run("vs_business", sellsRequest(VirginAtlantic, Business, true))
	t.Run("ha_premium", sellsRequest(HawaiianAirline, PremiumEconomy, false))
	t.Run("ha_business", sellsRequest(HawaiianAirline, Business, false))
	t.Run("ha_first", sellsRequest(HawaiianAirline, First, true))
	t.Run("unknown_cabin", sellsRequest(DeltaAirline, CabinClass("coach"), false))
}
