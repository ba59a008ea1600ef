// Package wizard implements the three-step appointment booking flow:
// date and time, then doctor and service, then patient details, followed by
// a simulated submission and a confirmation.
package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/notify"
	"github.com/clinicconnect/clinicconnect-api/internal/slots"
	"github.com/clinicconnect/clinicconnect-api/internal/validation"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step is a wizard state
type Step string

const (
	StepDateTime        Step = "select_date_time"
	StepProviderService Step = "select_provider_service"
	StepContact         Step = "enter_contact_info"
	StepSubmitting      Step = "submitting"
	StepConfirmed       Step = "confirmed"
)

// Number is the progress indicator position (1-3, 4 once confirmed)
func (s Step) Number() int {
	switch s {
	case StepDateTime:
		return 1
	case StepProviderService:
		return 2
	case StepContact, StepSubmitting:
		return 3
	case StepConfirmed:
		return 4
	default:
		return 0
	}
}

const (
	DefaultSubmitDelay = 1500 * time.Millisecond
	DefaultDaysAhead   = 7

	dateLayout      = "2006-01-02"
	dateLabelLayout = "January 2, 2006"
	slotKeyLayout   = "15:04"

	confirmedMessage = "Your appointment has been scheduled successfully"
)

// CatalogLookup resolves step 2 selections
type CatalogLookup interface {
	ProviderByID(ctx context.Context, id int) (*models.Provider, error)
	ServiceByID(ctx context.Context, id int) (*models.Service, error)
}

// SlotGenerator produces the time grid of a day
type SlotGenerator interface {
	Generate(day time.Time) []models.TimeSlot
	Location() *time.Location
}

// ContactValidator checks step 3 input
type ContactValidator interface {
	Validate(details models.ContactDetails) validation.Errors
}

// Options wires a wizard's collaborators. Catalog, Slots and Validator are required.
type Options struct {
	Catalog     CatalogLookup
	Slots       SlotGenerator
	Validator   ContactValidator
	Notifier    notify.Sink
	Scheduler   Scheduler
	Now         func() time.Time
	NewRef      func() string
	SubmitDelay time.Duration
	DaysAhead   int
	// OnConfirmed runs outside the wizard lock after a booking is confirmed
	OnConfirmed func(models.Confirmation)
}

// Preselection carries the doctor or service chosen on another panel
type Preselection struct {
	Provider *models.Provider
	Service  *models.Service
}

// Wizard is one visitor's booking flow. All methods are safe for concurrent use.
type Wizard struct {
	mu   sync.Mutex
	opts Options

	step         Step
	dates        []time.Time
	date         *time.Time
	slots        []models.TimeSlot
	slot         *models.TimeSlot
	provider     *models.Provider
	service      *models.Service
	contact      models.ContactDetails
	errors       validation.Errors
	confirmation *models.Confirmation

	pending     Stopper
	generation  uint64
	submittedAt time.Time
	closed      bool
}

// New mounts a wizard on step 1. Preselected values are copied.
func New(opts Options, pre Preselection) *Wizard {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRef == nil {
		opts.NewRef = func() string { return uuid.NewString() }
	}
	if opts.SubmitDelay < 0 {
		opts.SubmitDelay = DefaultSubmitDelay
	}
	if opts.DaysAhead <= 0 {
		opts.DaysAhead = DefaultDaysAhead
	}

	w := &Wizard{opts: opts}
	w.resetLocked()

	if pre.Provider != nil {
		p := *pre.Provider
		w.provider = &p
	}
	if pre.Service != nil {
		s := *pre.Service
		w.service = &s
	}

	return w
}

// Step returns the current state
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SelectDateIndex picks the i-th day of the bookable range
func (w *Wizard) SelectDateIndex(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(StepDateTime); err != nil {
		return record("select_date", err)
	}
	if i < 0 || i >= len(w.dates) {
		return record("select_date", ErrDateOutOfRange)
	}

	w.selectDateLocked(w.dates[i])
	return record("select_date", nil)
}

// SelectDate picks a day of the bookable range given as YYYY-MM-DD
func (w *Wizard) SelectDate(iso string) error {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(iso), w.opts.Slots.Location())
	if err != nil {
		return record("select_date", ErrDateOutOfRange)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(StepDateTime); err != nil {
		return record("select_date", err)
	}
	for _, d := range w.dates {
		if d.Equal(day) {
			w.selectDateLocked(d)
			return record("select_date", nil)
		}
	}
	return record("select_date", ErrDateOutOfRange)
}

// SelectSlot picks a slot of the selected day by its label ("2:30 PM") or
// 24-hour start ("14:30")
func (w *Wizard) SelectSlot(key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(StepDateTime); err != nil {
		return record("select_slot", err)
	}
	if w.date == nil {
		return record("select_slot", ErrDateRequired)
	}

	key = strings.TrimSpace(key)
	for i := range w.slots {
		s := w.slots[i]
		if !strings.EqualFold(s.Label, key) && s.StartTime.Format(slotKeyLayout) != key {
			continue
		}
		if !s.Available {
			return record("select_slot", ErrSlotUnavailable)
		}
		w.slot = &s
		return record("select_slot", nil)
	}
	return record("select_slot", ErrUnknownSlot)
}

// SelectProvider picks the doctor for step 2
func (w *Wizard) SelectProvider(ctx context.Context, id int) error {
	p, err := w.opts.Catalog.ProviderByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			return err
		}
		return record("select_provider", ErrUnknownProvider)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(StepProviderService); err != nil {
		return record("select_provider", err)
	}
	chosen := *p
	w.provider = &chosen
	return record("select_provider", nil)
}

// SelectService picks the service for step 2
func (w *Wizard) SelectService(ctx context.Context, id int) error {
	s, err := w.opts.Catalog.ServiceByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			return err
		}
		return record("select_service", ErrUnknownService)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(StepProviderService); err != nil {
		return record("select_service", err)
	}
	chosen := *s
	w.service = &chosen
	return record("select_service", nil)
}

// UpdateContact edits one step 3 field and clears that field's error
func (w *Wizard) UpdateContact(field models.ContactField, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(StepContact); err != nil {
		return record("update_contact", err)
	}
	if !w.contact.Set(field, value) {
		return record("update_contact", ErrUnknownField)
	}
	delete(w.errors, string(field))
	return record("update_contact", nil)
}

// Next advances from step 1 or 2 once the step's selections are complete
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(""); err != nil {
		return record("next", err)
	}

	switch w.step {
	case StepDateTime:
		if w.date == nil {
			return record("next", w.rejectLocked(ErrDateRequired))
		}
		if w.slot == nil {
			return record("next", w.rejectLocked(ErrTimeRequired))
		}
		w.step = StepProviderService
	case StepProviderService:
		if w.provider == nil {
			return record("next", w.rejectLocked(ErrProviderRequired))
		}
		if w.service == nil {
			return record("next", w.rejectLocked(ErrServiceRequired))
		}
		w.step = StepContact
	default:
		return record("next", ErrWrongStep)
	}

	logger.Debug("Booking wizard advanced", zap.String("step", string(w.step)))
	return record("next", nil)
}

// Back returns to the previous step keeping every selection
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(""); err != nil {
		return record("back", err)
	}

	switch w.step {
	case StepProviderService:
		w.step = StepDateTime
	case StepContact:
		w.step = StepProviderService
	default:
		return record("back", ErrWrongStep)
	}
	return record("back", nil)
}

// Submit validates step 3 and starts the simulated booking call. The wizard
// reaches StepConfirmed after the configured delay unless closed first.
func (w *Wizard) Submit() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardLocked(StepContact); err != nil {
		return record("submit", err)
	}

	if errs := w.opts.Validator.Validate(w.contact); len(errs) > 0 {
		w.errors = errs
		return record("submit", w.rejectLocked(ErrInvalidContact))
	}

	w.errors = validation.Errors{}
	w.step = StepSubmitting
	w.generation++
	w.submittedAt = w.opts.Now()

	gen := w.generation
	w.pending = w.opts.Scheduler.AfterFunc(w.opts.SubmitDelay, func() { w.complete(gen) })

	logger.Info("Booking submitted",
		zap.String("date", w.date.Format(dateLayout)),
		zap.String("time", w.slot.Label),
		zap.Int("provider_id", w.provider.ID),
		zap.Int("service_id", w.service.ID))
	return record("submit", nil)
}

// Reset starts over after a confirmed booking
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return record("reset", ErrClosed)
	}
	if w.step != StepConfirmed {
		return record("reset", ErrNotConfirmed)
	}

	w.resetLocked()
	return record("reset", nil)
}

// Close tears the wizard down and cancels a pending submission. Safe to call
// more than once.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	w.generation++
	if w.pending != nil {
		if w.pending.Stop() {
			logger.Info("Pending booking submission cancelled")
		}
		w.pending = nil
	}
}

// complete is the scheduled end of a submission. A stale generation means
// the wizard was closed or reset in between, so nothing happens.
func (w *Wizard) complete(gen uint64) {
	w.mu.Lock()
	if w.closed || gen != w.generation || w.step != StepSubmitting {
		w.mu.Unlock()
		return
	}

	now := w.opts.Now()
	conf := models.Confirmation{
		Reference:   w.opts.NewRef(),
		Date:        w.date.Format(dateLayout),
		DateLabel:   w.date.Format(dateLabelLayout),
		TimeLabel:   w.slot.Label,
		Provider:    *w.provider,
		Service:     *w.service,
		PatientName: strings.TrimSpace(strings.TrimSpace(w.contact.FirstName) + " " + strings.TrimSpace(w.contact.LastName)),
		Email:       strings.TrimSpace(w.contact.Email),
		Phone:       validation.NormalizePhone(w.contact.Phone),
		Notes:       strings.TrimSpace(w.contact.Notes),
		ConfirmedAt: now,
	}
	w.confirmation = &conf
	w.step = StepConfirmed
	w.pending = nil

	metrics.BookingsConfirmed.Inc()
	metrics.BookingSubmitDuration.Observe(now.Sub(w.submittedAt).Seconds())
	w.opts.Notifier.Notify(models.NotificationSuccess, confirmedMessage)
	onConfirmed := w.opts.OnConfirmed
	w.mu.Unlock()

	logger.Info("Booking confirmed",
		zap.String("reference", conf.Reference),
		zap.String("date", conf.Date),
		zap.String("time", conf.TimeLabel))

	if onConfirmed != nil {
		onConfirmed(conf)
	}
}

// guardLocked rejects actions on a closed or submitting wizard and, when
// want is set, actions outside that step
func (w *Wizard) guardLocked(want Step) error {
	switch {
	case w.closed:
		return ErrClosed
	case w.step == StepSubmitting:
		return ErrSubmitting
	case want != "" && w.step != want:
		return ErrWrongStep
	}
	return nil
}

func (w *Wizard) rejectLocked(r *Rejection) error {
	w.opts.Notifier.Notify(models.NotificationError, r.Message)
	return r
}

func (w *Wizard) selectDateLocked(day time.Time) {
	d := day
	w.date = &d
	w.slots = w.opts.Slots.Generate(day)
	w.slot = nil
}

func (w *Wizard) resetLocked() {
	loc := w.opts.Slots.Location()
	today := slots.StartOfDay(w.opts.Now(), loc)

	w.dates = make([]time.Time, w.opts.DaysAhead)
	for i := range w.dates {
		w.dates[i] = today.AddDate(0, 0, i)
	}

	w.step = StepDateTime
	w.date = nil
	w.slots = []models.TimeSlot{}
	w.slot = nil
	w.provider = nil
	w.service = nil
	w.contact = models.ContactDetails{}
	w.errors = validation.Errors{}
	w.confirmation = nil
	w.generation++
}

func record(action string, err error) error {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	metrics.WizardTransitions.WithLabelValues(action, result).Inc()
	return err
}
