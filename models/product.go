package models

// AvailabilityState is the storefront view of a Cortex availability state
type AvailabilityState string

const (
	AvailabilityAvailable  AvailabilityState = "AVAILABLE"
	AvailabilityPreOrder   AvailabilityState = "PRE_ORDER"
	AvailabilityBackOrder  AvailabilityState = "BACK_ORDER"
	AvailabilityOutOfStock AvailabilityState = "OUT_OF_STOCK"
)

// ProductListItemView is the read-only view of one product in a grid.
// It is rebuilt from the Cortex response every time a fetch resolves.
type ProductListItemView struct {
	Code              string            `json:"code"`
	DisplayName       string            `json:"displayName"`
	ListPrice         string            `json:"listPrice"`
	PurchasePrice     string            `json:"purchasePrice"`
	Availability      AvailabilityState `json:"availability"`
	AvailabilityLabel string            `json:"availabilityLabel"`
	Available         bool              `json:"available"`
	ReleaseDate       string            `json:"releaseDate,omitempty"`
	SelfURI           string            `json:"selfUri"`
	DetailURL         string            `json:"detailUrl"`
	ImageURL          string            `json:"imageUrl"`
	AddToCartURI      string            `json:"addToCartUri,omitempty"`
}

// ShowListPrice reports whether the original price is rendered next to the price
func (v ProductListItemView) ShowListPrice() bool {
	return v.ListPrice != v.PurchasePrice
}
