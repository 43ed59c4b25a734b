package dto

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardSearchRequest_Validate(t *testing.T) {
	require.NoError(t, InitValidator())

	validateRequest := func(req AwardSearchRequest, wantErr bool, wantMsg string) func(t *testing.T) {
		return func(t *testing.T) {
			err := req.Validate()
			if (err != nil) != wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, wantErr)
			}

			if wantErr && err != nil {
				if diff := cmp.Diff(wantMsg, err.Error()); diff != "" {
					t.Fatalf("Validate() error message mismatch (-want +got):\n%s", diff)
				}
			}
		}
	}

	ptrFloat := func(f float64) *float64 { return &f }
	ptrString := func(s string) *string { return &s }

	valid := func() AwardSearchRequest {
		return AwardSearchRequest{
			Carrier:       "AC",
			Origin:        "JFK",
			Destination:   "LHR",
			DepartureDate: "2026-11-01",
			CabinClass:    "economy",
		}
	}

	with := func(edit func(r *AwardSearchRequest)) AwardSearchRequest {
		r := valid()
		edit(&r)
		return r
	}

	t.Run("valid", validateRequest(valid(), false, ""))
	t.Run("lowercase_codes", validateRequest(with(func(r *AwardSearchRequest) {
		r.Carrier, r.Origin, r.Destination, r.CabinClass = "ac", "jfk", "lhr", "Premium Economy"
	}), false, ""))

	t.Run("missing_origin", validateRequest(with(func(r *AwardSearchRequest) {
		r.Origin = ""
	}), true, "origin is a required field"))

	t.Run("bad_airport", validateRequest(with(func(r *AwardSearchRequest) {
		r.Destination = "LOND"
	}), true, "destination must be a 3-letter airport code"))

	t.Run("unknown_carrier", validateRequest(with(func(r *AwardSearchRequest) {
		r.Carrier = "ZZ"
	}), true, "carrier is not a supported carrier"))

	t.Run("bad_cabin", validateRequest(with(func(r *AwardSearchRequest) {
		r.CabinClass = "coach"
	}), true, "cabin_class must be one of economy, premium_economy, business, first"))

	t.Run("invalid_sort_field", validateRequest(with(func(r *AwardSearchRequest) {
		r.SortOption = &SortOption{Field: "price", Order: "asc"}
	}), true, "Invalid sort field price"))

	t.Run("invalid_sort_order", validateRequest(with(func(r *AwardSearchRequest) {
		r.SortOption = &SortOption{Field: "points", Order: "up"}
	}), true, "Invalid sort order up"))

	t.Run("invalid_points_range", validateRequest(with(func(r *AwardSearchRequest) {
		r.FilterOption = &FilterOption{MinPoints: ptrFloat(60000), MaxPoints: ptrFloat(50000)}
	}), true, "max_points must not be less than min_points"))

	t.Run("invalid_departure_window", validateRequest(with(func(r *AwardSearchRequest) {
		r.FilterOption = &FilterOption{DepartureTimeStart: ptrString("18:00"), DepartureTimeEnd: ptrString("06:00")}
	}), true, "departure_time_end must not be before departure_time_start"))
}

func TestAwardSearchRequest_Bind(t *testing.T) {
	require.NoError(t, InitValidator())

	bindRequest := func(req AwardSearchRequest, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			err := req.Bind(nil)
			if (err != nil) != wantErr {
				t.Fatalf("Bind() error = %v, wantErr %v", err, wantErr)
			}
		}
	}

	t.Run("valid_bind", bindRequest(AwardSearchRequest{
		Carrier:       "AC",
		Origin:        "YYZ",
		Destination:   "YVR",
		DepartureDate: "2026-11-01",
		CabinClass:    "business",
	}, false))
	t.Run("invalid_bind", bindRequest(AwardSearchRequest{}, true))
}

func TestNewAwardFlight(t *testing.T) {
	f := NewAwardFlight(award.AirCanada, award.Flight{
		Points:   40000,
		Segments: []award.FlightSegment{{DepartureTime: "08:15"}, {DepartureTime: "13:00"}},
	})

	assert.Equal(t, "AC", f.Carrier)
	assert.Equal(t, 1, f.Stops)
	assert.Equal(t, "08:15", f.DepartureTime())
	assert.Zero(t, f.CashFeeAmount())
}
