package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/utils"
	"github.com/jedib0t/go-pretty/v6/table"
)

type renderer func(w io.Writer, flights []award.Flight) error

func newRenderer(format string) (renderer, error) {
	switch format {
	case "", "table":
		return renderTable, nil
	case "json":
		return renderJSON, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func renderFlights(w io.Writer, flights []award.Flight, format string) error {
	render, err := newRenderer(format)
	if err != nil {
		return err
	}
	return render(w, flights)
}

func renderJSON(w io.Writer, flights []award.Flight) error {
	if flights == nil {
		flights = []award.Flight{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(flights)
}

func renderTable(w io.Writer, flights []award.Flight) error {
	if len(flights) == 0 {
		_, err := fmt.Fprintln(w, "no award flights found")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Fare", "Cabin", "Points", "Cash Fee", "Stops", "Route", "Departs", "Arrives", "Flights"})

	for i, f := range flights {
		t.AppendRow(table.Row{
			i + 1,
			f.AirlineCabinClass,
			f.CabinClass.String(),
			utils.FormatPoints(f.Points),
			cashFee(f.CashFee),
			f.Stops(),
			route(f.Segments),
			departs(f.Segments),
			arrives(f.Segments),
			flightNumbers(f.Segments),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func cashFee(fee *award.CashFee) string {
	if fee == nil {
		return "-"
	}
	return utils.FormatAmount(fee.Amount, fee.Currency)
}

func route(segments []award.FlightSegment) string {
	if len(segments) == 0 {
		return ""
	}

	stops := make([]string, 0, len(segments)+1)
	for _, s := range segments {
		stops = append(stops, s.Origin)
	}
	stops = append(stops, segments[len(segments)-1].Destination)

	return strings.Join(stops, "-")
}

func departs(segments []award.FlightSegment) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[0].DepartureDate + " " + segments[0].DepartureTime
}

func arrives(segments []award.FlightSegment) string {
	if len(segments) == 0 {
		return ""
	}
	last := segments[len(segments)-1]
	return last.ArrivalDate + " " + last.ArrivalTime
}

func flightNumbers(segments []award.FlightSegment) string {
	numbers := make([]string, 0, len(segments))
	for _, s := range segments {
		numbers = append(numbers, s.FlightNumber)
	}
	return strings.Join(numbers, ", ")
}
