package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntlGet(t *testing.T) {
	intl, err := NewIntl("en-CA")
	require.NoError(t, err)

	assert.Equal(t, "en-CA", intl.Locale())
	assert.Equal(t, "Original Price", intl.Get("original-price"))
	assert.Equal(t, "Card Holder's Name", intl.Get("card-holders-name"))
}

func TestIntlMissingKeyReturnsKey(t *testing.T) {
	intl, err := NewIntl("en-CA")
	require.NoError(t, err)

	assert.Equal(t, "no-such-message", intl.Get("no-such-message"))
}

func TestIntlFrenchFallsBackToDefault(t *testing.T) {
	intl, err := NewIntl("fr-FR")
	require.NoError(t, err)

	assert.Equal(t, "Annuler", intl.Get("cancel"))
	// visa is only in the default catalog
	assert.Equal(t, "Visa", intl.Get("visa"))
}

func TestIntlRejectsBadLocale(t *testing.T) {
	_, err := NewIntl("not a locale!")
	assert.Error(t, err)
}
