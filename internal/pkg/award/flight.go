package award

// CashFee is the co-pay attached to an award fare.
type CashFee struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// FareOffer is one fare column of a result row. It only lives until it is folded
// into a Flight.
type FareOffer struct {
	Name    string
	Points  float64
	CashFee *CashFee
}

type FlightSegment struct {
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	DepartureDate     string `json:"departure_date"`
	DepartureTime     string `json:"departure_time"`
	DepartureTimezone string `json:"departure_timezone"`
	ArrivalDate       string `json:"arrival_date"`
	ArrivalTime       string `json:"arrival_time"`
	ArrivalTimezone   string `json:"arrival_timezone"`
	Duration          string `json:"duration,omitempty"`
	Aircraft          string `json:"aircraft"`
	FlightNumber      string `json:"flight_number"`
	Carrier           string `json:"carrier"`
}

// Flight is one sellable result: a fare on a result row together with the row's
// itinerary.
type Flight struct {
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	CabinClass        CabinClass      `json:"cabin_class"`
	AirlineCabinClass string          `json:"airline_cabin_class"`
	Points            float64         `json:"points"`
	CashFee           *CashFee        `json:"cash_fee"`
	Segments          []FlightSegment `json:"segments"`
}

// NewFlight assembles a flight from a fare and the segments of the row it was
// offered on. Origin and destination come from the first and last segment.
func NewFlight(cabin CabinClass, fare FareOffer, segments []FlightSegment) Flight {
	f := Flight{
		CabinClass:        cabin,
		AirlineCabinClass: fare.Name,
		Points:            fare.Points,
		CashFee:           fare.CashFee,
		Segments:          segments,
	}

	if len(segments) > 0 {
		f.Origin = segments[0].Origin
		f.Destination = segments[len(segments)-1].Destination
	}

	return f
}

// Stops is the number of connections in the itinerary.
func (f Flight) Stops() int {
	if len(f.Segments) == 0 {
		return 0
	}
	return len(f.Segments) - 1
}
