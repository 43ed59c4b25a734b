package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/crawler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	cabins      []award.CabinClass
	fares       []RawFare
	segments    []RawSegment
	segmentsErr error
}

type fakeResults struct {
	columns []award.CabinClass
	rows    []fakeRow

	opened        []int
	detailsOpened []int
}

func (f *fakeResults) CabinColumns(context.Context) ([]award.CabinClass, error) {
	return f.columns, nil
}

func (f *fakeResults) Rows(context.Context) (int, error) {
	return len(f.rows), nil
}

func (f *fakeResults) OpenCabin(_ context.Context, row int, cabin award.CabinClass) (bool, error) {
	f.opened = append(f.opened, row)
	for _, c := range f.rows[row].cabins {
		if c == cabin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResults) Fares(_ context.Context, row int) ([]RawFare, error) {
	return f.rows[row].fares, nil
}

func (f *fakeResults) Segments(_ context.Context, row int) ([]RawSegment, error) {
	f.detailsOpened = append(f.detailsOpened, row)
	return f.rows[row].segments, f.rows[row].segmentsErr
}

var departure = time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC)

func jfkToLhrSegments() []RawSegment {
	return []RawSegment{
		{
			OriginText:      "New York JFK",
			OriginCity:      "New York",
			DestinationText: "Toronto YYZ",
			DestinationCity: "Toronto",
			DepartureTime:   "18:05",
			ArrivalTime:     "19:55",
			Aircraft:        "Airbus A220-300",
			FlightNumber:    "AC 745",
			CarrierText:     "| Operated by Air Canada",
		},
		{
			OriginText:      "Toronto YYZ",
			OriginCity:      "Toronto",
			DestinationText: "London LHR",
			DestinationCity: "London",
			DepartureTime:   "22:40",
			ArrivalTime:     "10:45",
			ArrivalOffset:   "+1 day",
			Aircraft:        "Boeing 787-9",
			FlightNumber:    "AC 856",
			CarrierText:     "Air Canada",
		},
	}
}

func wantSegments() []award.FlightSegment {
	return []award.FlightSegment{
		{
			Origin:        "JFK",
			Destination:   "YYZ",
			DepartureDate: "2026-10-29",
			DepartureTime: "18:05",
			ArrivalDate:   "2026-10-29",
			ArrivalTime:   "19:55",
			Aircraft:      "Airbus A220-300",
			FlightNumber:  "AC 745",
			Carrier:       "Air Canada",
		},
		{
			Origin:        "YYZ",
			Destination:   "LHR",
			DepartureDate: "2026-10-29",
			DepartureTime: "22:40",
			ArrivalDate:   "2026-10-30",
			ArrivalTime:   "10:45",
			Aircraft:      "Boeing 787-9",
			FlightNumber:  "AC 856",
			Carrier:       "Air Canada",
		},
	}
}

func drain(seq func(yield func(award.Flight, error) bool)) ([]award.Flight, error) {
	var flights []award.Flight
	for f, err := range seq {
		if err != nil {
			return flights, err
		}
		flights = append(flights, f)
	}
	return flights, nil
}

func TestRun_TwoFaresShareItinerary(t *testing.T) {
	page := &fakeResults{
		columns: []award.CabinClass{award.Economy, award.Business},
		rows: []fakeRow{{
			cabins: []award.CabinClass{award.Economy},
			fares: []RawFare{
				{Name: "Flex", PointsText: "45,000", CashFeeText: "USD $5.60"},
				{Name: "Standard", PointsText: "40k"},
			},
			segments: jfkToLhrSegments(),
		}},
	}

	flights, err := drain(Run(context.Background(), page, departure, award.Economy, Options{}))
	require.NoError(t, err)

	want := []award.Flight{
		{
			Origin:            "JFK",
			Destination:       "LHR",
			CabinClass:        award.Economy,
			AirlineCabinClass: "Flex",
			Points:            45000,
			CashFee:           &award.CashFee{Amount: 5.60, Currency: "USD"},
			Segments:          wantSegments(),
		},
		{
			Origin:            "JFK",
			Destination:       "LHR",
			CabinClass:        award.Economy,
			AirlineCabinClass: "Standard",
			Points:            40000,
			Segments:          wantSegments(),
		},
	}

	if diff := cmp.Diff(want, flights); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{0}, page.detailsOpened)
}

func TestRun_CabinNotRendered(t *testing.T) {
	page := &fakeResults{
		columns: []award.CabinClass{award.Economy, award.PremiumEconomy},
		rows: []fakeRow{{
			cabins:   []award.CabinClass{award.Economy},
			fares:    []RawFare{{Name: "Standard", PointsText: "40k"}},
			segments: jfkToLhrSegments(),
		}},
	}

	flights, err := drain(Run(context.Background(), page, departure, award.First, Options{}))

	assert.ErrorIs(t, err, crawler.ErrNoSearchResult)
	assert.Empty(t, flights)
	assert.Empty(t, page.opened)
	assert.Empty(t, page.detailsOpened)
}

func TestRun_RowSkipping(t *testing.T) {
	page := &fakeResults{
		columns: []award.CabinClass{award.Business},
		rows: []fakeRow{
			// cabin not sold on this row
			{cabins: []award.CabinClass{award.Economy}, segments: jfkToLhrSegments()},
			// no parsable points
			{
				cabins:   []award.CabinClass{award.Business},
				fares:    []RawFare{{Name: "Lowest", PointsText: "--"}, {Name: "Flex", PointsText: ""}},
				segments: jfkToLhrSegments(),
			},
			// one good fare among bad ones
			{
				cabins: []award.CabinClass{award.Business},
				fares: []RawFare{
					{Name: "Lowest", PointsText: "n/a"},
					{Name: "Latitude", PointsText: "120k", CashFeeText: "CAD $1,234.56"},
				},
				segments: jfkToLhrSegments(),
			},
		},
	}

	flights, err := drain(Run(context.Background(), page, departure, award.Business, Options{}))
	require.NoError(t, err)

	require.Len(t, flights, 1)
	assert.Equal(t, "Latitude", flights[0].AirlineCabinClass)
	assert.Equal(t, 120000.0, flights[0].Points)
	assert.Equal(t, &award.CashFee{Amount: 1234.56, Currency: "CAD"}, flights[0].CashFee)
	assert.Equal(t, []int{0, 1, 2}, page.opened)
	assert.Equal(t, []int{2}, page.detailsOpened)
}

func TestRun_DetailFailurePolicy(t *testing.T) {
	broken := errors.New("segment dialog never rendered")

	newPage := func() *fakeResults {
		good := fakeRow{
			cabins:   []award.CabinClass{award.Economy},
			fares:    []RawFare{{Name: "Standard", PointsText: "40k"}},
			segments: jfkToLhrSegments(),
		}
		bad := good
		bad.segments = nil
		bad.segmentsErr = broken

		return &fakeResults{
			columns: []award.CabinClass{award.Economy},
			rows:    []fakeRow{good, bad, good},
		}
	}

	t.Run("abort", func(t *testing.T) {
		page := newPage()
		flights, err := drain(Run(context.Background(), page, departure, award.Economy, Options{}))

		assert.ErrorIs(t, err, broken)
		assert.Len(t, flights, 1)
		assert.Equal(t, []int{0, 1}, page.detailsOpened)
	})

	t.Run("skip_row", func(t *testing.T) {
		page := newPage()
		flights, err := drain(Run(context.Background(), page, departure, award.Economy, Options{DetailFailure: DetailFailureSkipRow}))

		assert.NoError(t, err)
		assert.Len(t, flights, 2)
		assert.Equal(t, []int{0, 1, 2}, page.detailsOpened)
	})

	t.Run("empty_details_abort", func(t *testing.T) {
		page := newPage()
		page.rows[1].segmentsErr = nil

		_, err := drain(Run(context.Background(), page, departure, award.Economy, Options{}))
		assert.ErrorIs(t, err, errNoSegments)
	})
}

func TestRun_StopsWhenConsumerBreaks(t *testing.T) {
	row := fakeRow{
		cabins: []award.CabinClass{award.Economy},
		fares: []RawFare{
			{Name: "Standard", PointsText: "40k"},
			{Name: "Flex", PointsText: "45k"},
		},
		segments: jfkToLhrSegments(),
	}
	page := &fakeResults{
		columns: []award.CabinClass{award.Economy},
		rows:    []fakeRow{row, row, row},
	}

	n := 0
	for _, err := range Run(context.Background(), page, departure, award.Economy, Options{}) {
		require.NoError(t, err)
		n++
		if n == 1 {
			break
		}
	}

	assert.Equal(t, 1, n)
	assert.Equal(t, []int{0}, page.opened)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := &fakeResults{
		columns: []award.CabinClass{award.Economy},
		rows:    []fakeRow{{cabins: []award.CabinClass{award.Economy}}},
	}

	_, err := drain(Run(ctx, page, departure, award.Economy, Options{}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, page.opened)
}

func TestNormalizeSegment_DayOffsets(t *testing.T) {
	offsetRequest := func(depOffset, arrOffset, wantDep, wantArr string, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			rs := jfkToLhrSegments()[0]
			rs.DepartureOffset = depOffset
			rs.ArrivalOffset = arrOffset

			seg, err := NormalizeSegment(rs, departure)
			if wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, wantDep, seg.DepartureDate)
			assert.Equal(t, wantArr, seg.ArrivalDate)
		}
	}

	t.Run("no_marker_inherits_query_date", offsetRequest("", "", "2026-10-29", "2026-10-29", false))
	t.Run("plus_one", offsetRequest("", "+1 day", "2026-10-29", "2026-10-30", false))
	t.Run("both_shifted", offsetRequest("+1", "+2 days", "2026-10-30", "2026-10-31", false))
	t.Run("month_rollover", offsetRequest("", "+3", "2026-10-29", "2026-11-01", false))
	t.Run("garbled_marker", offsetRequest("", "next day", "", "", true))
}

func TestNormalizeSegment_MissingAirport(t *testing.T) {
	rs := jfkToLhrSegments()[0]
	rs.OriginText = "New York"

	_, err := NormalizeSegment(rs, departure)
	assert.Error(t, err)
}
