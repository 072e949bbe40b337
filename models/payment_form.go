package models

import "fmt"

// CardType is the wire code of a card brand
type CardType string

const (
	CardTypeVisa       CardType = "001"
	CardTypeMastercard CardType = "002"
	CardTypeAmex       CardType = "003"
)

// CardTypes lists card brands in the order the form offers them
var CardTypes = []CardType{CardTypeAmex, CardTypeMastercard, CardTypeVisa}

// ParseCardType accepts a wire code
func ParseCardType(code string) (CardType, error) {
	switch CardType(code) {
	case CardTypeVisa, CardTypeMastercard, CardTypeAmex:
		return CardType(code), nil
	}
	return "", fmt.Errorf("unknown card type %q", code)
}

// MessageID returns the i18n key of the brand name
func (c CardType) MessageID() string {
	switch c {
	case CardTypeVisa:
		return "visa"
	case CardTypeMastercard:
		return "mastercard"
	case CardTypeAmex:
		return "american-express"
	}
	return string(c)
}

// PaymentFormPhase is the workflow position of a payment form
type PaymentFormPhase int

const (
	PaymentFormEditing PaymentFormPhase = iota
	PaymentFormSubmitting
	PaymentFormClosed
)

func (p PaymentFormPhase) String() string {
	switch p {
	case PaymentFormEditing:
		return "editing"
	case PaymentFormSubmitting:
		return "submitting"
	case PaymentFormClosed:
		return "closed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// PaymentFormState is the local state of a payment form.
// It is created on mount and reset only by mounting a new form.
type PaymentFormState struct {
	CardType         CardType
	HolderName       string
	CardNumber       string
	ExpiryMonth      int
	ExpiryYear       int
	SecurityCode     string
	SaveToProfile    bool
	SubmissionFailed bool
	Loading          bool
}

// CardDetails is what a tokenizer receives
type CardDetails struct {
	CardType     CardType
	HolderName   string
	Number       string
	ExpiryMonth  int
	ExpiryYear   int
	SecurityCode string
}

// PaymentInstrumentRequest is the body posted to a payment instrument form
type PaymentInstrumentRequest struct {
	DefaultOnProfile bool                            `json:"default-on-profile"`
	SaveOnProfile    bool                            `json:"save-on-profile"`
	LimitAmount      int64                           `json:"limit-amount"`
	Identification   PaymentInstrumentIdentification `json:"payment-instrument-identification-form"`
}

// PaymentInstrumentIdentification carries the tokenized card
type PaymentInstrumentIdentification struct {
	DisplayName string `json:"display-name"`
	Token       string `json:"token"`
}
