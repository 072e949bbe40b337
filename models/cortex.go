package models

// Cortex responses wrap every zoomed resource in an array, even singletons,
// so "_price[0]" is the price of an item.

// CortexLink is a hypermedia link of a Cortex resource
type CortexLink struct {
	Rel  string `json:"rel"`
	Type string `json:"type"`
	URI  string `json:"uri"`
	Href string `json:"href"`
}

// CortexSelf identifies a Cortex resource
type CortexSelf struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
	Href string `json:"href"`
}

// CortexCode is the "_code" zoom of an item
type CortexCode struct {
	Code string `json:"code"`
}

// CortexDefinition is the "_definition" zoom of an item
type CortexDefinition struct {
	DisplayName string `json:"display-name"`
}

// CortexMoney is a single price value
type CortexMoney struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Display  string  `json:"display"`
}

// CortexPrice is the "_price" zoom of an item
type CortexPrice struct {
	ListPrice     []CortexMoney `json:"list-price"`
	PurchasePrice []CortexMoney `json:"purchase-price"`
}

// CortexReleaseDate is the optional release date of a pre-order item
type CortexReleaseDate struct {
	DisplayValue string `json:"display-value"`
	Value        int64  `json:"value"`
}

// CortexAvailability is the "_availability" zoom of an item
type CortexAvailability struct {
	State       string             `json:"state"`
	ReleaseDate *CortexReleaseDate `json:"release-date,omitempty"`
}

// CortexForm is a Cortex form resource such as "_addtocartform"
type CortexForm struct {
	Self  CortexSelf   `json:"self"`
	Links []CortexLink `json:"links"`
}

// ActionURI returns the URI of the link with rel, or the form itself
func (f CortexForm) ActionURI(rel string) string {
	for _, l := range f.Links {
		if l.Rel == rel {
			return l.URI
		}
	}
	return f.Self.URI
}

// CortexProduct is an item resource zoomed for a product list item
type CortexProduct struct {
	Self          CortexSelf           `json:"self"`
	Code          []CortexCode         `json:"_code"`
	Definition    []CortexDefinition   `json:"_definition"`
	Price         []CortexPrice        `json:"_price"`
	Availability  []CortexAvailability `json:"_availability"`
	AddToCartForm []CortexForm         `json:"_addtocartform"`
}

// CortexElement is one entry of an element list
type CortexElement struct {
	Self CortexSelf `json:"self"`
}

// CortexItemList covers navigations ("_items[0]._element"), keyword search
// results and offer search results ("_element")
type CortexItemList struct {
	Self        CortexSelf       `json:"self"`
	DisplayName string           `json:"display-name"`
	Element     []CortexElement  `json:"_element"`
	Items       []CortexItemList `json:"_items"`
}

// ElementURIs returns the item URIs of the list in response order
func (l CortexItemList) ElementURIs() []string {
	elements := l.Element
	if len(elements) == 0 && len(l.Items) > 0 {
		elements = l.Items[0].Element
	}

	uris := make([]string, 0, len(elements))
	for _, e := range elements {
		if e.Self.URI != "" {
			uris = append(uris, e.Self.URI)
		}
	}
	return uris
}

// CortexTokenResponse is the body of a successful OAuth token request
type CortexTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        string `json:"role"`
}
