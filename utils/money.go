package utils

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"storefront/models"
)

// PriceUnavailable is shown for both prices when an item has no price
const PriceUnavailable = "n/a"

// FormatPrice returns the display string of a Cortex price.
// Cortex normally sends a localized "display"; when it is empty the amount is
// formatted for locale with the currency code in front, e.g. "CAD 1,234.50".
func FormatPrice(m models.CortexMoney, locale string) string {
	if display := strings.TrimSpace(m.Display); display != "" {
		return display
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	currency := strings.ToUpper(strings.TrimSpace(m.Currency))
	if currency == "" {
		return p.Sprintf("%.2f", m.Amount)
	}
	return p.Sprintf("%s %.2f", currency, m.Amount)
}

// FirstPrice returns the formatted first entry of a price array, or
// PriceUnavailable when the array is empty
func FirstPrice(values []models.CortexMoney, locale string) string {
	if len(values) == 0 {
		return PriceUnavailable
	}
	return FormatPrice(values[0], locale)
}
