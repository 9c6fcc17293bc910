package gmaps

// Strategy is one attempt at locating a field: a CSS selector plus an
// optional attribute to read instead of inner text. Strategies are tried in
// order; the first non-empty result wins. Keeping them as data means a
// Maps UI change is a table edit, not an extraction-logic change.
type Strategy struct {
	Selector   string
	Attr       string
	TrimPrefix string
}

// Results feed and listing cards.
const (
	feedSelector     = `div[role="feed"]`
	cardLinkSelector = `a[href*="/maps/place/"]`
)

// Detail panel readiness: a heading that is not the sidebar's own
// "Results" heading must be present with non-empty text.
const detailReadyPredicate = `(() => {
	const hs = document.querySelectorAll('div[role="main"] h1, h1');
	for (const h of hs) {
		const t = (h.innerText || '').trim();
		if (t && t.toLowerCase() !== 'results') return true;
	}
	return false;
})()`

var nameStrategies = []Strategy{
	{Selector: `div[role="main"] h1.DUwDvf`},
	{Selector: `div[role="main"] h1`},
	{Selector: `h1.DUwDvf`},
}

var addressStrategies = []Strategy{
	{Selector: `button[data-item-id="address"] div.fontBodyMedium`},
	{Selector: `button[data-item-id="address"]`, Attr: "aria-label", TrimPrefix: "Address: "},
	{Selector: `[data-tooltip="Copy address"]`},
}

var phoneStrategies = []Strategy{
	{Selector: `button[data-item-id^="phone:tel:"]`, Attr: "data-item-id", TrimPrefix: "phone:tel:"},
	{Selector: `button[data-item-id^="phone"] div.fontBodyMedium`},
	{Selector: `[data-tooltip="Copy phone number"]`},
}

var websiteStrategies = []Strategy{
	{Selector: `a[data-item-id="authority"]`, Attr: "href"},
	{Selector: `a[aria-label^="Website:"]`, Attr: "href"},
}

var ratingStrategies = []Strategy{
	{Selector: `div.F7nice span[aria-hidden="true"]`},
	{Selector: `div[role="main"] span[role="img"]`, Attr: "aria-label"},
	{Selector: `span.ceNzKf`, Attr: "aria-label"},
}

var reviewStrategies = []Strategy{
	{Selector: `div.F7nice span[aria-label*="review"]`, Attr: "aria-label"},
	{Selector: `div.F7nice span span:last-child`},
	{Selector: `button[jsaction*="moreReviews"]`},
}

var categoryStrategies = []Strategy{
	{Selector: `button.DkEaL`},
	{Selector: `button[jsaction*="category"]`},
}

// Price tier ("$$") and price range ("$50–100") are independent, both
// optional, and live in different spots of the header row.
var priceLevelStrategies = []Strategy{
	{Selector: `span.mgr77e span[aria-hidden="true"]`},
	{Selector: `span[aria-label^="Price:"]`, Attr: "aria-label", TrimPrefix: "Price: "},
}

var priceRangeStrategies = []Strategy{
	{Selector: `span.mgr77e`},
	{Selector: `div[role="main"] span[aria-label*="per person"]`, Attr: "aria-label"},
}

// Hours disclosure control and the disclosed schedule rows.
var hoursButtonSelectors = []string{
	`button[data-item-id="oh"]`,
	`div[jsaction*="openhours"]`,
}

const (
	hoursDaySelector  = `table.eK4R0e tr td.ylH6lf div`
	hoursTimeSelector = `table.eK4R0e tr td.mxowUb`

	hoursDayFallbackSelector  = `div[role="main"] table tr td:first-child`
	hoursTimeFallbackSelector = `div[role="main"] table tr td:nth-child(2)`
)

const mailtoSelector = `a[href^="mailto:"]`
