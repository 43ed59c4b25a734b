package aircanada

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/extract"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

// resultsPage reads the rendered upsell grid. Fare panels and the detail
// dialog are pulled as HTML in one round trip and parsed locally.
type resultsPage struct {
	driver pagedriver.Driver
}

var _ extract.ResultsPage = (*resultsPage)(nil)

func (p *resultsPage) CabinColumns(ctx context.Context) ([]award.CabinClass, error) {
	n, err := p.driver.Count(ctx, cabinHeading)
	if err != nil {
		return nil, err
	}

	cabins := make([]award.CabinClass, 0, n)
	for i := 0; i < n; i++ {
		text, err := pagedriver.TextOrEmpty(ctx, p.driver, cabinHeading.Nth(i))
		if err != nil {
			return nil, err
		}

		if cabin, ok := cabinFromHeading(text); ok {
			cabins = append(cabins, cabin)
		}
	}

	return cabins, nil
}

func (p *resultsPage) Rows(ctx context.Context) (int, error) {
	return p.driver.Count(ctx, resultRows)
}

func (p *resultsPage) OpenCabin(ctx context.Context, row int, cabin award.CabinClass) (bool, error) {
	code, ok := cabinCodes[cabin]
	if !ok {
		return false, nil
	}

	cell := resultRows.Nth(row).Within(cabinCell(code))

	bookable, err := pagedriver.Exists(ctx, p.driver, cell)
	if err != nil || !bookable {
		return false, err
	}

	if err := pagedriver.ClickWhen(ctx, p.driver, cell, pagedriver.Clickable, pagedriver.DefaultWait); err != nil {
		return false, err
	}

	if err := p.driver.Wait(ctx, fareList, pagedriver.Visible, pagedriver.MediumWait); err != nil {
		return false, fmt.Errorf("fare list: %w", err)
	}

	return true, nil
}

func (p *resultsPage) Fares(ctx context.Context, _ int) ([]extract.RawFare, error) {
	headersHTML, err := p.driver.HTML(ctx, fareHeaders)
	if err != nil {
		return nil, fmt.Errorf("fare headers: %w", err)
	}

	listHTML, err := p.driver.HTML(ctx, fareList)
	if err != nil {
		return nil, fmt.Errorf("fare list: %w", err)
	}

	return parseFares(headersHTML, listHTML)
}

// parseFares pairs each fare header with the fare list item in the same
// position. Extra entries on either side are dropped.
func parseFares(headersHTML, listHTML string) ([]extract.RawFare, error) {
	headers, err := goquery.NewDocumentFromReader(strings.NewReader(headersHTML))
	if err != nil {
		return nil, err
	}

	list, err := goquery.NewDocumentFromReader(strings.NewReader(listHTML))
	if err != nil {
		return nil, err
	}

	names := headers.Find("span").Map(func(_ int, s *goquery.Selection) string {
		return award.NormalizeText(s.Text())
	})

	var fares []extract.RawFare

	list.Find(".fare-list-item").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if i >= len(names) {
			return false
		}

		price := item.Find(".price-container")
		fares = append(fares, extract.RawFare{
			Name:        names[i],
			PointsText:  firstText(price.Find(".points > span")),
			CashFeeText: firstText(price.Find("kilo-price > span")),
		})
		return true
	})

	return fares, nil
}

func (p *resultsPage) Segments(ctx context.Context, row int) (segments []extract.RawSegment, err error) {
	link := resultRows.Nth(row).Within(detailLink)

	if err := pagedriver.ClickWhen(ctx, p.driver, link, pagedriver.Clickable, pagedriver.MediumWait); err != nil {
		return nil, fmt.Errorf("open details: %w", err)
	}

	// the dialog covers the row list, so it is closed on every exit path
	defer func() {
		err = errors.Join(err, p.closeDetails(ctx))
	}()

	if err := p.driver.Wait(ctx, detailSegment, pagedriver.Visible, pagedriver.HighWait); err != nil {
		return nil, fmt.Errorf("details dialog: %w", err)
	}

	html, err := p.driver.HTML(ctx, detailDialog)
	if err != nil {
		return nil, err
	}

	return parseSegments(html)
}

func (p *resultsPage) closeDetails(ctx context.Context) error {
	if err := pagedriver.ClickWhen(ctx, p.driver, detailClose, pagedriver.Clickable, pagedriver.MediumWait); err != nil {
		return fmt.Errorf("close details: %w", err)
	}

	return p.driver.Wait(ctx, detailDialog, pagedriver.Absent, pagedriver.MediumWait)
}

// parseSegments reads the legs of the flight details dialog. Each leg has a
// departure container followed by an arrival container.
func parseSegments(html string) ([]extract.RawSegment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var (
		segments []extract.RawSegment
		parseErr error
	)

	doc.Find("kilo-flight-segment-details-cont").EachWithBreak(func(i int, leg *goquery.Selection) bool {
		containers := leg.Find("div.container")
		if containers.Length() < 2 {
			parseErr = fmt.Errorf("segment %d: expected departure and arrival blocks, got %d", i, containers.Length())
			return false
		}

		seg := extract.RawSegment{}
		readDeparture(containers.Eq(0), &seg)
		readArrival(containers.Eq(1), &seg)
		segments = append(segments, seg)
		return true
	})

	return segments, parseErr
}

func readDeparture(block *goquery.Selection, seg *extract.RawSegment) {
	timings := block.Find(".flight-timings").First()
	offset := timings.Find(".arrival-days")

	seg.DepartureOffset = firstText(offset)
	seg.DepartureTime = strings.TrimSpace(strings.Replace(timings.Text(), offset.Text(), "", 1))

	rows := block.Find(".flight-details-container .d-flex")

	place := rows.Eq(0).Find("span").First()
	seg.OriginCity = firstText(place.Find("strong"))
	seg.OriginText = place.Text()

	airline := rows.Eq(1).Find(".airline-info .airline-details span")
	seg.FlightNumber = firstText(airline.Eq(0))
	seg.CarrierText = firstText(airline.Eq(1))
	seg.Aircraft = firstText(airline.Eq(2))

	seg.Duration = firstText(block.Find(".flight-duration"))
}

func readArrival(block *goquery.Selection, seg *extract.RawSegment) {
	timings := block.Find(".flight-timings").First()

	seg.ArrivalTime = firstText(timings.Find("span"))
	seg.ArrivalOffset = firstText(timings.Find(".arrival-days"))

	place := block.Find(".flight-details-container span").First()
	seg.DestinationCity = firstText(place.Find("strong"))
	seg.DestinationText = place.Text()
}

func firstText(s *goquery.Selection) string {
	return award.NormalizeText(s.First().Text())
}
