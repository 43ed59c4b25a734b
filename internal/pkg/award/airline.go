package award

import "strings"

// Airline identifies a carrier by its IATA designator.
type Airline string

const (
	AirCanada       Airline = "AC"
	AmericanAirline Airline = "AA"
	DeltaAirline    Airline = "DL"
	HawaiianAirline Airline = "HA"
	UnitedAirline   Airline = "UA"
	VirginAtlantic  Airline = "VS"
)

var airlineNames = map[Airline]string{
	AirCanada:       "Air Canada",
	AmericanAirline: "American Airlines",
	DeltaAirline:    "Delta Air Lines",
	HawaiianAirline: "Hawaiian Airlines",
	UnitedAirline:   "United Airlines",
	VirginAtlantic:  "Virgin Atlantic",
}

// ParseAirline accepts the designator in any case.
func ParseAirline(s string) (Airline, bool) {
	a := Airline(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := airlineNames[a]
	return a, ok
}

func (a Airline) Name() string {
	if name, ok := airlineNames[a]; ok {
		return name
	}
	return string(a)
}

func (a Airline) String() string {
	return string(a)
}

// cabins a carrier does not sell as awards; carriers not listed sell all cabins
var unsoldCabins = map[Airline][]CabinClass{
	VirginAtlantic:  {First},
	HawaiianAirline: {PremiumEconomy, Business},
}

// Sells reports whether the carrier offers award seats in cabin at all.
func (a Airline) Sells(cabin CabinClass) bool {
	for _, c := range unsoldCabins[a] {
		if c == cabin {
			return false
		}
	}
	return cabin.Valid()
}
