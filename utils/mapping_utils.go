package utils

import (
	"strings"

	"storefront/models"
)

// MapAvailabilityState maps a Cortex availability state to the storefront state.
// Input is normalized to uppercase before mapping.
// Unknown or empty states are treated as out of stock.
func MapAvailabilityState(state string) models.AvailabilityState {
	stateUpper := strings.ToUpper(strings.TrimSpace(state))

	stateMap := map[string]models.AvailabilityState{
		"AVAILABLE":                models.AvailabilityAvailable,
		"AVAILABLE_FOR_PRE_ORDER":  models.AvailabilityPreOrder,
		"AVAILABLE_FOR_BACK_ORDER": models.AvailabilityBackOrder,
	}

	if mapped, exists := stateMap[stateUpper]; exists {
		return mapped
	}

	return models.AvailabilityOutOfStock
}

// MapAvailabilityToMessageID maps a storefront availability state to its i18n key
func MapAvailabilityToMessageID(state models.AvailabilityState) string {
	messageMap := map[models.AvailabilityState]string{
		models.AvailabilityAvailable:  "in-stock",
		models.AvailabilityPreOrder:   "pre-order",
		models.AvailabilityBackOrder:  "back-order",
		models.AvailabilityOutOfStock: "out-of-stock",
	}

	if id, exists := messageMap[state]; exists {
		return id
	}

	return "out-of-stock"
}

// IsPurchasable reports whether an item in this state may be added to a cart
func IsPurchasable(state models.AvailabilityState) bool {
	return state != models.AvailabilityOutOfStock
}
