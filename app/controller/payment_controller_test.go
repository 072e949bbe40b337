package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
	"storefront/routing"
	"storefront/service"
)

func paymentTable() *routing.Table {
	return routing.MustNewTable([]routing.RouteDescriptor{
		{Path: "/newpaymentform/paymentdata", Page: "AddPaymentMethod"},
	})
}

func newPaymentController(t *testing.T, env *testEnv) *PaymentController {
	t.Helper()
	tokenizer, err := service.NewMACTokenizer("test-secret")
	require.NoError(t, err)
	return NewPaymentController(env.cortex, tokenizer, env.renderer, env.intl, "vestri", env.logger)
}

func validCard() url.Values {
	return url.Values{
		"action":         {"save"},
		"cardType":       {"001"},
		"cardHolderName": {"Ada Lovelace"},
		"cardNumber":     {"4111111111111111"},
		"expiryMonth":    {"6"},
		"expiryYear":     {strconv.Itoa(time.Now().Year() + 1)},
		"securityCode":   {"123"},
		"saveToProfile":  {"on"},
	}
}

func TestPaymentFormRendersDefaults(t *testing.T) {
	env := newTestEnv(t)
	c := newPaymentController(t, env)

	rec := serve(t, paymentTable(), c, httptest.NewRequest(http.MethodGet, "/newpaymentform/paymentdata", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Add Payment Method")
	assert.Contains(t, body, `<option value="003" selected>American Express</option>`)
	assert.Contains(t, body, `name="returnTo" value="/profile"`)
	assert.NotContains(t, body, "Failed to save")
}

func TestPaymentFormSaveRedirects(t *testing.T) {
	env := newTestEnv(t)
	c := newPaymentController(t, env)

	form := validCard()
	form.Set("returnTo", "/checkout")
	rec := serve(t, paymentTable(), c, postForm("/newpaymentform/paymentdata", form))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/checkout", rec.Header().Get("Location"))

	posts := env.cortex.recordedPosts()
	require.Len(t, posts, 1)
	assert.Equal(t, "/paymentinstruments/vestri/form", posts[0].URI)
	req, ok := posts[0].Body.(models.PaymentInstrumentRequest)
	require.True(t, ok)
	assert.True(t, req.SaveOnProfile)
	assert.Equal(t, "Ada Lovelace", req.Identification.DisplayName)
	assert.Regexp(t, `^tok_`, req.Identification.Token)
	assert.NotContains(t, req.Identification.Token, "4111111111111111")
}

func TestPaymentFormUsesFormQuery(t *testing.T) {
	env := newTestEnv(t)
	c := newPaymentController(t, env)

	rec := serve(t, paymentTable(), c, postForm("/newpaymentform/paymentdata?form=/orders/vestri/1/paymentinstrumentform", validCard()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	posts := env.cortex.recordedPosts()
	require.Len(t, posts, 1)
	assert.Equal(t, "/orders/vestri/1/paymentinstrumentform", posts[0].URI)
}

func TestPaymentFormValidationFailure(t *testing.T) {
	env := newTestEnv(t)
	c := newPaymentController(t, env)

	form := validCard()
	form.Set("cardHolderName", "Ada")
	rec := serve(t, paymentTable(), c, postForm("/newpaymentform/paymentdata", form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to save, please check all required fields are filled.")
	assert.Contains(t, rec.Body.String(), `value="Ada"`)
	assert.Empty(t, env.cortex.recordedPosts())
}

func TestPaymentFormUnparsableFieldShowsFailure(t *testing.T) {
	env := newTestEnv(t)
	c := newPaymentController(t, env)

	form := validCard()
	form.Set("expiryYear", "abc")
	rec := serve(t, paymentTable(), c, postForm("/newpaymentform/paymentdata", form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to save, please check all required fields are filled.")
	assert.Empty(t, env.cortex.recordedPosts())
}

func TestPaymentFormPostFailure(t *testing.T) {
	env := newTestEnv(t)
	env.cortex.postErr = errors.New("cortex down")
	c := newPaymentController(t, env)

	rec := serve(t, paymentTable(), c, postForm("/newpaymentform/paymentdata", validCard()))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to save")
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestPaymentFormCancel(t *testing.T) {
	env := newTestEnv(t)
	c := newPaymentController(t, env)

	rec := serve(t, paymentTable(), c, postForm("/newpaymentform/paymentdata", url.Values{"action": {"cancel"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, DefaultReturnPath, rec.Header().Get("Location"))
	assert.Empty(t, env.cortex.recordedPosts())
}

func TestPaymentFormRejectsForeignReturnTo(t *testing.T) {
	for _, returnTo := range []string{"//evil.example.com", "https://evil.example.com", "/\\evil.example.com", "profile"} {
		t.Run(returnTo, func(t *testing.T) {
			env := newTestEnv(t)
			c := newPaymentController(t, env)

			rec := serve(t, paymentTable(), c, postForm("/newpaymentform/paymentdata", url.Values{
				"action":   {"cancel"},
				"returnTo": {returnTo},
			}))

			assert.Equal(t, DefaultReturnPath, rec.Header().Get("Location"))
		})
	}
}

func TestPaymentFormServesRedirectPage(t *testing.T) {
	env := newTestEnv(t)
	doc := `<html><body><form><input id="card_number"><input id="bill_to_email"><input id="payment_confirmation"></form></body></html>`
	env.cortex.postResp = &service.CortexPostResponse{
		Status:      http.StatusOK,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(doc),
	}
	c := newPaymentController(t, env)

	rec := serve(t, paymentTable(), c, postForm("/newpaymentform/paymentdata", validCard()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, doc, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/checkout?step=2", localPath("/checkout?step=2", "/profile"))
	assert.Equal(t, "/profile", localPath("", "/profile"))
	assert.Equal(t, "/profile", localPath("//evil", "/profile"))
}
