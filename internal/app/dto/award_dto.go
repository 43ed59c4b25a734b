package dto

import (
	"fmt"
	"net/http"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/exception"
)

// AwardFlight is a crawled award flight together with its ranking.
type AwardFlight struct {
	award.Flight
	Carrier string  `json:"carrier"`
	Stops   int     `json:"stops"`
	Score   float64 `json:"score"`
}

// NewAwardFlight wraps a crawled flight for the response. Score is filled in
// by ranking.
func NewAwardFlight(carrier award.Airline, f award.Flight) AwardFlight {
	return AwardFlight{
		Flight:  f,
		Carrier: string(carrier),
		Stops:   f.Stops(),
	}
}

// CashFeeAmount is the fee amount, zero when the fare has none.
func (f AwardFlight) CashFeeAmount() float64 {
	if f.CashFee == nil {
		return 0
	}
	return f.CashFee.Amount
}

// DepartureTime is the "HH:MM" departure of the first segment.
func (f AwardFlight) DepartureTime() string {
	if len(f.Segments) == 0 {
		return ""
	}
	return f.Segments[0].DepartureTime
}

var AllowedSortField = map[string]bool{
	"":               true,
	"score":          true,
	"points":         true,
	"cash_fee":       true,
	"stops":          true,
	"departure_time": true,
}

var AllowedSortOrder = map[string]bool{
	"":     true,
	"asc":  true,
	"desc": true,
}

type AwardSearchRequest struct {
	Carrier       string        `json:"carrier" validate:"required,carrier"`
	Origin        string        `json:"origin" validate:"required,airport"`
	Destination   string        `json:"destination" validate:"required,airport,nefield=Origin"`
	DepartureDate string        `json:"departure_date" validate:"required,datetime=2006-01-02"`
	CabinClass    string        `json:"cabin_class" validate:"required,cabin"`
	SortOption    *SortOption   `json:"sort_option,omitempty"`
	FilterOption  *FilterOption `json:"filter_option,omitempty"`
}

func (s *AwardSearchRequest) Bind(r *http.Request) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (s *AwardSearchRequest) Validate() error {
	if err := ValidateSingleError(s); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	if s.SortOption != nil {
		if !AllowedSortField[s.SortOption.Field] {
			return exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("Invalid sort field %s", s.SortOption.Field),
			}
		}

		if !AllowedSortOrder[s.SortOption.Order] {
			return exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("Invalid sort order %s", s.SortOption.Order),
			}
		}
	}

	if s.FilterOption != nil {
		if s.FilterOption.MinPoints != nil && s.FilterOption.MaxPoints != nil &&
			*s.FilterOption.MaxPoints < *s.FilterOption.MinPoints {
			return exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    "max_points must not be less than min_points",
			}
		}

		if s.FilterOption.DepartureTimeStart != nil && s.FilterOption.DepartureTimeEnd != nil &&
			*s.FilterOption.DepartureTimeEnd < *s.FilterOption.DepartureTimeStart {
			return exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    "departure_time_end must not be before departure_time_start",
			}
		}
	}

	return nil
}

type FilterOption struct {
	MinPoints          *float64 `json:"min_points,omitempty" validate:"omitempty,gte=0"`
	MaxPoints          *float64 `json:"max_points,omitempty" validate:"omitempty,gt=0"`
	MaxCashFee         *float64 `json:"max_cash_fee,omitempty" validate:"omitempty,gte=0"`
	MaxStops           *int     `json:"max_stops,omitempty" validate:"omitempty,gte=0"`
	FareName           *string  `json:"fare_name,omitempty"`
	DepartureTimeStart *string  `json:"departure_time_start,omitempty" validate:"omitempty,datetime=15:04"`
	DepartureTimeEnd   *string  `json:"departure_time_end,omitempty" validate:"omitempty,datetime=15:04"`
}

type SortOption struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

type Metadata struct {
	Carrier      string `json:"carrier"`
	CrawledCount int    `json:"crawled_count"`
	TotalResults int    `json:"total_results"`
	SearchTimeMs int    `json:"search_time_ms"`
	CacheHit     bool   `json:"cache_hit"`
}

type AwardSearchResponse struct {
	SearchCriteria AwardSearchRequest `json:"search_criteria"`
	Metadata       Metadata           `json:"metadata"`
	Flights        []AwardFlight      `json:"flights"`
}

type Carrier struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CarriersResponse struct {
	Carriers []Carrier `json:"carriers"`
}
