// Package workflow drives one customer's quote from file selection to order
// submission. A Workflow is owned by a single caller and is not safe for
// concurrent use.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"quote-backend/internal/models"
	"quote-backend/internal/pricing"
	"quote-backend/internal/quoteapi"
)

var (
	ErrNoFileSelected    = errors.New("no file selected")
	ErrNoServiceSelected = errors.New("no service selected")
	ErrNothingToQuote    = errors.New("quote total is zero")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrUnknownService    = errors.New("unknown service")
	ErrUnknownDelivery   = errors.New("unknown delivery speed")
	ErrNotConfirmed      = errors.New("order not confirmed")
	ErrInvalidTransition = errors.New("invalid workflow transition")
)

const (
	msgAnalyzing  = "Analyzing document..."
	msgSubmitting = "Submitting order..."
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Backend is the server side of the workflow.
type Backend interface {
	Analyze(ctx context.Context, fileName string, data []byte) (*models.AnalyzeResponse, error)
	SubmitOrder(ctx context.Context, order quoteapi.OrderRequest) (*quoteapi.SubmitResult, error)
}

// Confirmer asks the customer for a final go-ahead before an order is sent.
type Confirmer interface {
	Confirm(ctx context.Context, summary Snapshot) (bool, error)
}

type ConfirmFunc func(ctx context.Context, summary Snapshot) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, summary Snapshot) (bool, error) {
	return f(ctx, summary)
}

// AlwaysConfirm approves every order.
var AlwaysConfirm = ConfirmFunc(func(context.Context, Snapshot) (bool, error) { return true, nil })

type Option func(*Workflow)

// WithObserver registers a callback invoked after every state or input change.
func WithObserver(fn func(Snapshot)) Option {
	return func(w *Workflow) { w.observer = fn }
}

func WithConfirmer(c Confirmer) Option {
	return func(w *Workflow) { w.confirmer = c }
}

type Workflow struct {
	backend   Backend
	table     *pricing.Table
	confirmer Confirmer
	observer  func(Snapshot)

	state     State
	fileName  string
	file      []byte
	wordCount int
	pageCount int
	services  pricing.Selection
	speed     pricing.Speed
	email     string
	message   string
	reference string
}

func New(backend Backend, table *pricing.Table, opts ...Option) *Workflow {
	w := &Workflow{
		backend:   backend,
		table:     table,
		confirmer: AlwaysConfirm,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.clear()
	return w
}

func (w *Workflow) State() State { return w.state }

// SelectFile discards any previous analysis and selected services, then
// analyzes the new file. A failed analysis leaves the workflow in
// AnalysisFailed; selecting a file again retries.
func (w *Workflow) SelectFile(ctx context.Context, fileName string, data []byte) error {
	if w.state.busy() {
		return fmt.Errorf("%w: select file while %s", ErrInvalidTransition, w.state)
	}
	if len(data) == 0 {
		return ErrNoFileSelected
	}

	w.fileName = fileName
	w.file = data
	w.wordCount, w.pageCount = 0, 0
	w.services = pricing.Select()
	w.reference = ""
	w.transition(Analyzing, msgAnalyzing)

	res, err := w.backend.Analyze(ctx, fileName, data)
	if err != nil {
		w.transition(AnalysisFailed, failureMessage(err, quoteapi.FallbackAnalyzeMessage))
		return err
	}

	w.wordCount = res.WordCount
	w.pageCount = res.PageCount
	w.transition(Ready, "")
	return nil
}

// SetService checks or unchecks a service. Allowed before a file is chosen
// so the delivery labels can be shown early.
func (w *Workflow) SetService(svc pricing.Service, on bool) error {
	if w.state.busy() {
		return fmt.Errorf("%w: change services while %s", ErrInvalidTransition, w.state)
	}
	if !slices.Contains(pricing.Services, svc) {
		return fmt.Errorf("%w: %q", ErrUnknownService, svc)
	}
	if on {
		w.services = w.services.With(svc)
	} else {
		w.services = w.services.Without(svc)
	}
	w.notify()
	return nil
}

func (w *Workflow) SetDelivery(speed pricing.Speed) error {
	if w.state.busy() {
		return fmt.Errorf("%w: change delivery while %s", ErrInvalidTransition, w.state)
	}
	if !slices.Contains(pricing.Speeds, speed) {
		return fmt.Errorf("%w: %q", ErrUnknownDelivery, speed)
	}
	w.speed = speed
	w.notify()
	return nil
}

func (w *Workflow) SetEmail(email string) error {
	if w.state.busy() {
		return fmt.Errorf("%w: change email while %s", ErrInvalidTransition, w.state)
	}
	w.email = strings.TrimSpace(email)
	w.notify()
	return nil
}

// Quote is the current price, derived from the analysis and selections.
type Quote struct {
	Pages        int
	RatePerPage  decimal.Decimal
	Total        decimal.Decimal
	TotalDisplay string
}

func (w *Workflow) Quote() Quote {
	pages := 0
	if w.state == Ready || w.state == Submitting || w.state == Submitted || w.state == SubmitFailed {
		pages = w.pageCount
	}
	total := w.table.PriceFor(w.services, w.speed, pages)
	return Quote{
		Pages:        pages,
		RatePerPage:  w.table.RateFor(w.services, w.speed),
		Total:        total,
		TotalDisplay: w.table.Format(total),
	}
}

// DeliveryOption is one selectable delivery speed with its rate label.
type DeliveryOption struct {
	Speed    pricing.Speed
	Label    string
	Selected bool
}

// DeliveryOptions lists every speed labelled with the combined per-page rate
// of the current service selection. It does not depend on any file.
func (w *Workflow) DeliveryOptions() []DeliveryOption {
	opts := make([]DeliveryOption, 0, len(pricing.Speeds))
	for _, speed := range pricing.Speeds {
		opts = append(opts, DeliveryOption{
			Speed:    speed,
			Label:    w.table.DeliveryLabel(speed, w.services),
			Selected: speed == w.speed,
		})
	}
	return opts
}

// CanSubmit returns nil when an order could be sent right now, or the first
// reason it cannot.
func (w *Workflow) CanSubmit() error {
	switch w.state {
	case Ready:
	case Idle, AnalysisFailed:
		return ErrNoFileSelected
	default:
		return fmt.Errorf("%w: submit while %s", ErrInvalidTransition, w.state)
	}
	if w.services.Empty() {
		return ErrNoServiceSelected
	}
	if w.Quote().Total.Sign() <= 0 {
		return ErrNothingToQuote
	}
	if !emailPattern.MatchString(w.email) {
		return ErrInvalidEmail
	}
	return nil
}

// Submit validates the order, asks for confirmation and sends it. On failure
// the workflow returns to Ready so the customer can try again.
func (w *Workflow) Submit(ctx context.Context) error {
	if err := w.CanSubmit(); err != nil {
		return err
	}

	ok, err := w.confirmer.Confirm(ctx, w.Snapshot())
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return ErrNotConfirmed
	}

	quote := w.Quote()
	order := quoteapi.OrderRequest{
		FileName:      w.fileName,
		File:          w.file,
		CustomerEmail: w.email,
		Services:      w.table.ServiceLabels(w.services),
		DeliveryLabel: w.table.DeliveryLabel(w.speed, w.services),
		TotalPrice:    quote.TotalDisplay,
	}
	w.transition(Submitting, msgSubmitting)

	res, err := w.backend.SubmitOrder(ctx, order)
	if err != nil {
		w.transition(SubmitFailed, failureMessage(err, quoteapi.FallbackSubmitMessage))
		w.transition(Ready, w.message)
		return err
	}

	w.reference = res.Reference
	w.transition(Submitted, res.Message)
	return nil
}

// Reset returns to Idle from any state, clearing every selection.
func (w *Workflow) Reset() {
	w.clear()
	w.notify()
}

// Snapshot is a read-only view of the workflow for rendering.
type Snapshot struct {
	State           State
	FileName        string
	WordCount       int
	PageCount       int
	Services        []string
	Speed           pricing.Speed
	Email           string
	Quote           Quote
	DeliveryOptions []DeliveryOption
	Message         string
	Reference       string
}

func (w *Workflow) Snapshot() Snapshot {
	quote := w.Quote()
	return Snapshot{
		State:           w.state,
		FileName:        w.fileName,
		WordCount:       w.wordCount,
		PageCount:       quote.Pages,
		Services:        w.table.ServiceLabels(w.services),
		Speed:           w.speed,
		Email:           w.email,
		Quote:           quote,
		DeliveryOptions: w.DeliveryOptions(),
		Message:         w.message,
		Reference:       w.reference,
	}
}

func (w *Workflow) clear() {
	w.state = Idle
	w.fileName = ""
	w.file = nil
	w.wordCount, w.pageCount = 0, 0
	w.services = pricing.Select()
	w.speed = pricing.Normal
	w.email = ""
	w.message = ""
	w.reference = ""
}

func (w *Workflow) transition(to State, message string) {
	w.state = to
	w.message = message
	w.notify()
}

func (w *Workflow) notify() {
	if w.observer != nil {
		w.observer(w.Snapshot())
	}
}

func failureMessage(err error, fallback string) string {
	var apiErr *quoteapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
