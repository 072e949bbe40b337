package utils

import (
	"net/url"
	"strings"

	"storefront/config"
)

// SkuImageURL substitutes the product code into an image URL template.
// Every occurrence of the placeholder is replaced; the code is path-escaped.
func SkuImageURL(template, code string) string {
	return strings.ReplaceAll(template, config.SkuPlaceholder, url.PathEscape(code))
}
