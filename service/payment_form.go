package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/models"
)

var (
	// ErrValidation is returned when a submitted form misses a required field
	ErrValidation = errors.New("payment form validation failed")
	// ErrFormClosed is returned when a closed form is changed or submitted
	ErrFormClosed = errors.New("payment form is closed")
	// ErrSubmitInProgress is returned when a form is submitted twice
	ErrSubmitInProgress = errors.New("payment form submission in progress")
)

const (
	maxSecurityCodeLen = 4
	expiryYearOptions  = 10
)

// PaymentFormProps are the caller-supplied inputs of a payment form
type PaymentFormProps struct {
	PaymentInstrumentFormURL string
	OnCloseModal             func()
	FetchData                func()
	// OnNativeSubmit runs when the payment redirect page asks for a native submission
	OnNativeSubmit func()
}

// PaymentPostResult is what the payment instrument endpoint answered
type PaymentPostResult struct {
	Location string
	// RedirectDocument is set when the endpoint answered with an HTML redirect page
	RedirectDocument []byte
}

// PaymentInstrumentPoster sends a tokenized payment instrument
type PaymentInstrumentPoster interface {
	PostPaymentInstrument(ctx context.Context, formURL string, req models.PaymentInstrumentRequest) (*PaymentPostResult, error)
}

// cortexPaymentPoster posts payment instruments through Cortex for one session
type cortexPaymentPoster struct {
	cortex    CortexServiceInterface
	sessionID string
}

// NewCortexPaymentPoster posts to Cortex forms on behalf of sessionID
func NewCortexPaymentPoster(cortex CortexServiceInterface, sessionID string) PaymentInstrumentPoster {
	return &cortexPaymentPoster{cortex: cortex, sessionID: sessionID}
}

func (p *cortexPaymentPoster) PostPaymentInstrument(ctx context.Context, formURL string, req models.PaymentInstrumentRequest) (*PaymentPostResult, error) {
	resp, err := p.cortex.Post(ctx, p.sessionID, formURL, req)
	if err != nil {
		return nil, err
	}

	result := &PaymentPostResult{Location: resp.Location}
	if strings.HasPrefix(resp.ContentType, "text/html") {
		result.RedirectDocument = resp.Body
	}
	return result, nil
}

// PaymentForm is the add-payment-method workflow: Editing, then Submitting,
// then Closed. Validation and post failures return it to Editing.
type PaymentForm struct {
	props     PaymentFormProps
	tokenizer Tokenizer
	poster    PaymentInstrumentPoster
	hook      *RedirectHook
	logger    *zap.Logger
	now       time.Time

	mu    sync.Mutex
	phase models.PaymentFormPhase
	state models.PaymentFormState
}

// NewPaymentForm mounts a form with expiry defaults taken from clock
func NewPaymentForm(props PaymentFormProps, tokenizer Tokenizer, poster PaymentInstrumentPoster, logger *zap.Logger, clock func() time.Time) *PaymentForm {
	if clock == nil {
		clock = time.Now
	}
	if props.OnCloseModal == nil {
		props.OnCloseModal = func() {}
	}
	if props.FetchData == nil {
		props.FetchData = func() {}
	}

	now := clock()
	return &PaymentForm{
		props:     props,
		tokenizer: tokenizer,
		poster:    poster,
		hook:      NewRedirectHook(props.OnNativeSubmit),
		logger:    logger,
		now:       now,
		phase:     models.PaymentFormEditing,
		state: models.PaymentFormState{
			CardType:    models.CardTypeAmex,
			ExpiryMonth: int(now.Month()),
			ExpiryYear:  now.Year(),
		},
	}
}

// State returns a copy of the form state
func (f *PaymentForm) State() models.PaymentFormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Phase returns the workflow phase
func (f *PaymentForm) Phase() models.PaymentFormPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// YearOptions returns the selectable expiry years, starting at the mount year
func (f *PaymentForm) YearOptions() []int {
	years := make([]int, expiryYearOptions)
	for i := range years {
		years[i] = f.now.Year() + i
	}
	return years
}

// MonthOptions returns 1 through 12
func (f *PaymentForm) MonthOptions() []int {
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

// edit applies fn while the form is editable
func (f *PaymentForm) edit(fn func(s *models.PaymentFormState) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.phase {
	case models.PaymentFormClosed:
		return ErrFormClosed
	case models.PaymentFormSubmitting:
		return ErrSubmitInProgress
	}
	return fn(&f.state)
}

func (f *PaymentForm) SetCardType(ct models.CardType) error {
	if _, err := models.ParseCardType(string(ct)); err != nil {
		return err
	}
	return f.edit(func(s *models.PaymentFormState) error {
		s.CardType = ct
		return nil
	})
}

func (f *PaymentForm) SetHolderName(name string) error {
	return f.edit(func(s *models.PaymentFormState) error {
		s.HolderName = name
		return nil
	})
}

func (f *PaymentForm) SetCardNumber(number string) error {
	return f.edit(func(s *models.PaymentFormState) error {
		s.CardNumber = number
		return nil
	})
}

func (f *PaymentForm) SetExpiryMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("expiry month %d out of range", month)
	}
	return f.edit(func(s *models.PaymentFormState) error {
		s.ExpiryMonth = month
		return nil
	})
}

func (f *PaymentForm) SetExpiryYear(year int) error {
	first := f.now.Year()
	if year < first || year >= first+expiryYearOptions {
		return fmt.Errorf("expiry year %d out of range", year)
	}
	return f.edit(func(s *models.PaymentFormState) error {
		s.ExpiryYear = year
		return nil
	})
}

// SetSecurityCode keeps at most four characters
func (f *PaymentForm) SetSecurityCode(code string) error {
	if r := []rune(code); len(r) > maxSecurityCodeLen {
		code = string(r[:maxSecurityCodeLen])
	}
	return f.edit(func(s *models.PaymentFormState) error {
		s.SecurityCode = code
		return nil
	})
}

func (f *PaymentForm) SetSaveToProfile(save bool) error {
	return f.edit(func(s *models.PaymentFormState) error {
		s.SaveToProfile = save
		return nil
	})
}

// Apply sets every field present in a posted HTML form. A field that
// cannot be applied marks the submission failed.
func (f *PaymentForm) Apply(values url.Values) error {
	var errs []error

	if v := values.Get("cardType"); v != "" {
		errs = append(errs, f.SetCardType(models.CardType(v)))
	}
	errs = append(errs,
		f.SetHolderName(values.Get("cardHolderName")),
		f.SetCardNumber(values.Get("cardNumber")),
		f.SetSecurityCode(values.Get("securityCode")),
		f.SetSaveToProfile(values.Get("saveToProfile") != ""),
	)
	if v := values.Get("expiryMonth"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid expiry month %q", v))
		} else {
			errs = append(errs, f.SetExpiryMonth(month))
		}
	}
	if v := values.Get("expiryYear"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid expiry year %q", v))
		} else {
			errs = append(errs, f.SetExpiryYear(year))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		f.mu.Lock()
		if f.phase == models.PaymentFormEditing {
			f.state.SubmissionFailed = true
			f.state.Loading = false
		}
		f.mu.Unlock()
	}
	return err
}

// validate requires a first and last name, a card number and a security code
func validate(s models.PaymentFormState) bool {
	return len(strings.Fields(s.HolderName)) >= 2 &&
		strings.TrimSpace(s.CardNumber) != "" &&
		strings.TrimSpace(s.SecurityCode) != ""
}

// Submit validates, tokenizes and posts the card. On success the form is
// Closed and OnCloseModal then FetchData run, unless the payment endpoint
// answered with a redirect page that triggered the native submission.
func (f *PaymentForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	switch f.phase {
	case models.PaymentFormClosed:
		f.mu.Unlock()
		return ErrFormClosed
	case models.PaymentFormSubmitting:
		f.mu.Unlock()
		return ErrSubmitInProgress
	}

	if !validate(f.state) {
		f.state.SubmissionFailed = true
		f.state.Loading = false
		f.mu.Unlock()
		f.logger.Info("Payment form rejected: missing required fields")
		return ErrValidation
	}

	f.state.Loading = true
	f.state.SubmissionFailed = false
	f.phase = models.PaymentFormSubmitting
	card := models.CardDetails{
		CardType:     f.state.CardType,
		HolderName:   strings.TrimSpace(f.state.HolderName),
		Number:       f.state.CardNumber,
		ExpiryMonth:  f.state.ExpiryMonth,
		ExpiryYear:   f.state.ExpiryYear,
		SecurityCode: f.state.SecurityCode,
	}
	saveToProfile := f.state.SaveToProfile
	f.mu.Unlock()

	token, err := f.tokenizer.Tokenize(ctx, card)
	if err != nil {
		f.fail()
		return fmt.Errorf("failed to tokenize card: %w", err)
	}

	req := models.PaymentInstrumentRequest{
		SaveOnProfile: saveToProfile,
		Identification: models.PaymentInstrumentIdentification{
			DisplayName: card.HolderName,
			Token:       token,
		},
	}

	result, err := f.poster.PostPaymentInstrument(ctx, f.props.PaymentInstrumentFormURL, req)
	if err != nil {
		f.fail()
		f.logger.Error("❌ Payment instrument post failed", zap.Error(err))
		return fmt.Errorf("failed to save payment instrument: %w", err)
	}

	f.mu.Lock()
	f.phase = models.PaymentFormClosed
	f.mu.Unlock()

	if result != nil && len(result.RedirectDocument) > 0 {
		fired, err := f.hook.NotifyDocument(result.RedirectDocument)
		if err != nil {
			f.logger.Warn("⚠️  Unreadable payment redirect page", zap.Error(err))
		}
		if fired {
			f.logger.Info("Payment redirect page ready, native submission triggered")
			return nil
		}
	}

	f.logger.Info("✓ Payment instrument saved")
	f.props.OnCloseModal()
	f.props.FetchData()
	return nil
}

// fail returns a submitting form to Editing with the failure flag set
func (f *PaymentForm) fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = models.PaymentFormEditing
	f.state.SubmissionFailed = true
	f.state.Loading = false
}

// Cancel calls OnCloseModal once without touching the form state
func (f *PaymentForm) Cancel() error {
	f.mu.Lock()
	closed := f.phase == models.PaymentFormClosed
	f.mu.Unlock()
	if closed {
		return ErrFormClosed
	}

	f.props.OnCloseModal()
	return nil
}
