package controller

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/config"
	"storefront/models"
	"storefront/service"
	"storefront/web"
)

// DefaultReturnPath is where a closed payment form sends the visitor
const DefaultReturnPath = "/profile"

// PaymentFormData is the template data of the add payment method page
type PaymentFormData struct {
	State     models.PaymentFormState
	Action    string
	ReturnTo  string
	CardTypes []models.CardType
	Months    []int
	Years     []int
}

// PaymentController serves /newpaymentform/paymentdata. Every request
// mounts a fresh payment form; the posted fields are its whole state.
type PaymentController struct {
	cortex    service.CortexServiceInterface
	tokenizer service.Tokenizer
	renderer  *web.Renderer
	intl      config.Intl
	scope     string
	clock     func() time.Time
	logger    *zap.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(cortex service.CortexServiceInterface, tokenizer service.Tokenizer, renderer *web.Renderer, intl config.Intl, scope string, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		cortex:    cortex,
		tokenizer: tokenizer,
		renderer:  renderer,
		intl:      intl,
		scope:     scope,
		clock:     time.Now,
		logger:    logger,
	}
}

// capturingPoster keeps the last payment endpoint answer so a redirect page
// can be handed to the browser
type capturingPoster struct {
	next   service.PaymentInstrumentPoster
	result *service.PaymentPostResult
}

func (p *capturingPoster) PostPaymentInstrument(ctx context.Context, formURL string, req models.PaymentInstrumentRequest) (*service.PaymentPostResult, error) {
	result, err := p.next.PostPaymentInstrument(ctx, formURL, req)
	p.result = result
	return result, err
}

func (c *PaymentController) Serve(w http.ResponseWriter, r *http.Request, rc RouteContext) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
	}

	returnTo := localPath(r.FormValue("returnTo"), DefaultReturnPath)
	formURL := localPath(r.URL.Query().Get("form"), "/paymentinstruments/"+c.scope+"/form")

	poster := &capturingPoster{next: service.NewCortexPaymentPoster(c.cortex, rc.SessionID)}
	nativeSubmit := false
	form := service.NewPaymentForm(service.PaymentFormProps{
		PaymentInstrumentFormURL: formURL,
		OnCloseModal:             func() { rc.Nav.Push(returnTo) },
		FetchData: func() {
			c.logger.Debug("Payment methods changed", zap.String("session", rc.SessionID))
		},
		OnNativeSubmit: func() { nativeSubmit = true },
	}, c.tokenizer, poster, c.logger, c.clock)

	if r.Method == http.MethodGet {
		c.render(w, r, http.StatusOK, form, returnTo)
		return
	}

	switch action := r.PostForm.Get("action"); action {
	case "cancel":
		if err := form.Cancel(); err != nil {
			c.logger.Warn("⚠️  Cancel on closed payment form", zap.Error(err))
		}
	case "save", "":
		if err := form.Apply(r.PostForm); err != nil {
			c.logger.Info("Payment form has invalid fields", zap.Error(err))
			c.render(w, r, http.StatusUnprocessableEntity, form, returnTo)
			return
		}

		err := form.Submit(r.Context())
		switch {
		case errors.Is(err, service.ErrValidation):
			c.render(w, r, http.StatusUnprocessableEntity, form, returnTo)
		case err != nil:
			c.render(w, r, http.StatusBadGateway, form, returnTo)
		case nativeSubmit && poster.result != nil:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(poster.result.RedirectDocument)
		}
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
	}
}

func (c *PaymentController) render(w http.ResponseWriter, r *http.Request, status int, form *service.PaymentForm, returnTo string) {
	c.renderer.Render(w, status, web.PagePaymentForm, web.Page{
		Title: c.intl.Get("page-add-payment-method"),
		Data: PaymentFormData{
			State:     form.State(),
			Action:    r.URL.RequestURI(),
			ReturnTo:  returnTo,
			CardTypes: models.CardTypes,
			Months:    form.MonthOptions(),
			Years:     form.YearOptions(),
		},
	})
}

// localPath accepts only same-site absolute paths, falling back to def
func localPath(p, def string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return def
	}
	if u, err := url.Parse(p); err != nil || u.Host != "" || u.Scheme != "" {
		return def
	}
	return p
}
