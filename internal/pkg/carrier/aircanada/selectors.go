package aircanada

import (
	"fmt"
	"strings"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

// search form
var (
	onewayTab   = pagedriver.XPath(`//div[@id='bkmg-tab-content-flight']//input[@id='bkmgFlights_tripTypeSelector_O']`)
	milesToggle = pagedriver.XPath(`//abc-checkbox[contains(@class, "search-type-toggle-checkbox")]//input[@id="bkmgFlights_searchTypeToggle"]`)

	originInput      = pagedriver.XPath(`//input[contains(@id, 'bkmgFlights_origin_trip_1')]`)
	originPanel      = pagedriver.XPath(`//ul[@id="bkmgFlights_origin_trip_1OptionsPanel"]`)
	originOptions    = pagedriver.XPath(`//ul[@id="bkmgFlights_origin_trip_1OptionsPanel"]/li`)
	destinationInput = pagedriver.XPath(`//input[contains(@id, "bkmgFlights_destination_trip")]`)
	destinationPanel = pagedriver.XPath(`//ul[@id="bkmgFlights_destination_trip_1OptionsPanel"]`)
	destinationOpts  = pagedriver.XPath(`//ul[@id="bkmgFlights_destination_trip_1OptionsPanel"]/li`)
	optionMain       = pagedriver.XPath(`.//div[@class="location-info-main"]`)

	dateInput       = pagedriver.XPath(`//input[@id="bkmgFlights_travelDates_1"]`)
	nextMonthButton = pagedriver.XPath(`//button[@id='bkmgFlights_travelDates_1_nextMonth']`)

	cookieBannerClose  = pagedriver.XPath(`//ngc-cookie-banner//div[contains(@class, "close-cookie")]//button`)
	findButton         = pagedriver.XPath(`//button[@id='bkmgFlights_findButton']`)
	confirmRewards     = pagedriver.XPath(`//abc-button//button[@id='confirmrewards']`)
	rewardsDialogClose = pagedriver.XPath(`//mat-dialog-container//kilo-simple-lightbox//div[@id='mat-dialog-title-0']//span[@aria-label='Close']`)
)

// result list
var (
	resultRows   = pagedriver.XPath(`//div[@class="page-container"]//kilo-upsell-cont//kilo-upsell-pres//kilo-upsell-row-cont//div[contains(@class, "upsell-row")]`)
	cabinHeading = pagedriver.XPath(`//div[@class='cabin-heading']`)

	fareHeaders = pagedriver.XPath(`//div[contains(@class, 'fare-headers')]`)
	fareList    = pagedriver.XPath(`//div[contains(@class, 'fare-list')]`)

	detailLink    = pagedriver.XPath(`.//div[contains(@class, "block-body")]//div[contains(@class, "details-row")]//span[contains(@class, "links")]//a[contains(@class, "detail-link")]`)
	detailDialog  = pagedriver.XPath(`//mat-dialog-container//kilo-simple-lightbox//kilo-flight-details-pres`)
	detailSegment = pagedriver.XPath(`//mat-dialog-container//kilo-simple-lightbox//kilo-flight-details-pres//kilo-flight-segment-details-cont`)
	detailClose   = pagedriver.XPath(`//mat-dialog-container//div[contains(@class, 'lightbox-container')]//div[contains(@class, 'header')]//span[contains(@class, 'icon-close')]`)
)

func dateCell(date string) pagedriver.Locator {
	return pagedriver.XPath(fmt.Sprintf(`//div[@id='bkmgFlights_travelDates_1-date-%s']`, date))
}

// cabin cell of a row, only matched while the cabin is bookable
func cabinCell(code string) pagedriver.Locator {
	return pagedriver.XPath(fmt.Sprintf(`.//div[contains(@class, 'cabins-container')]`+
		`//kilo-cabin-cell-pres[contains(@class, 'cabin')][contains(@data-analytics-val, '%s')]`+
		`//div[contains(@class, 'available-cabin')][contains(@class, 'flight-cabin-cell')]`, code))
}

// cabin codes used in the cabin cells' analytics attribute
var cabinCodes = map[award.CabinClass]string{
	award.Economy:        "economy",
	award.PremiumEconomy: "premiumEconomy",
	award.Business:       "business",
	award.First:          "first",
}

// cabinFromHeading maps a rendered column heading such as "Premium Economy"
// or "Business Class" to a cabin.
func cabinFromHeading(heading string) (award.CabinClass, bool) {
	h := strings.ToLower(award.NormalizeText(heading))

	switch {
	case strings.Contains(h, "premium"):
		return award.PremiumEconomy, true
	case strings.Contains(h, "economy"):
		return award.Economy, true
	case strings.Contains(h, "business"):
		return award.Business, true
	case strings.Contains(h, "first"):
		return award.First, true
	default:
		return "", false
	}
}
