package services

import (
	"context"
	"time"

	"github.com/clinicconnect/clinicconnect-api/config"
	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/notify"
	"github.com/clinicconnect/clinicconnect-api/internal/session"
	"github.com/clinicconnect/clinicconnect-api/internal/shell"
	"github.com/clinicconnect/clinicconnect-api/internal/wizard"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/tracing"
	"github.com/clinicconnect/clinicconnect-api/pkg/trigger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// VisitResponse is a rendered visit page
type VisitResponse struct {
	VisitID string     `json:"visitId"`
	Page    shell.View `json:"page"`
}

// WizardResponse is the booking wizard of a visit
type WizardResponse struct {
	VisitID string      `json:"visitId"`
	Wizard  wizard.View `json:"wizard"`
}

// NotificationsResponse holds the drained notices of a visit, newest first
type NotificationsResponse struct {
	VisitID       string                `json:"visitId"`
	Notifications []models.Notification `json:"notifications"`
}

// VisitService runs the per-visitor page shells and booking wizards
type VisitService struct {
	config    *config.Config
	catalog   shell.Catalog
	slots     wizard.SlotGenerator
	validator wizard.ContactValidator
	trigger   TriggerCaller
	scheduler wizard.Scheduler
	now       func() time.Time
	store     *session.Store
}

// NewVisitService creates a visit service with an empty session store
func NewVisitService(
	cfg *config.Config,
	catalog shell.Catalog,
	slots wizard.SlotGenerator,
	validator wizard.ContactValidator,
	caller TriggerCaller,
) *VisitService {
	s := &VisitService{
		config:    cfg,
		catalog:   catalog,
		slots:     slots,
		validator: validator,
		trigger:   caller,
		scheduler: wizard.TimerScheduler{},
		now:       time.Now,
	}
	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	s.store = session.NewStore(s.newShell, ttl, cfg.Session.MaxNotifications)
	return s
}

// WithScheduler replaces the submission timer of wizards mounted afterwards
func (s *VisitService) WithScheduler(scheduler wizard.Scheduler) *VisitService {
	s.scheduler = scheduler
	return s
}

// WithClock replaces the clock of wizards mounted afterwards
func (s *VisitService) WithClock(now func() time.Time) *VisitService {
	s.now = now
	return s
}

func (s *VisitService) newShell(queue *notify.Queue) *shell.Shell {
	factory := func(pre wizard.Preselection) *wizard.Wizard {
		return wizard.New(wizard.Options{
			Catalog:     s.catalog,
			Slots:       s.slots,
			Validator:   s.validator,
			Notifier:    queue,
			Scheduler:   s.scheduler,
			Now:         s.now,
			SubmitDelay: s.config.Booking.SubmitDelay,
			DaysAhead:   s.config.Booking.DaysAhead,
			OnConfirmed: s.onConfirmed,
		}, pre)
	}
	return shell.New(s.catalog, factory, queue)
}

func (s *VisitService) onConfirmed(c models.Confirmation) {
	logger.Info("Appointment confirmed",
		zap.String("reference", c.Reference),
		zap.String("date", c.Date),
		zap.String("time", c.TimeLabel),
		zap.Int("provider_id", c.Provider.ID),
		zap.Int("service_id", c.Service.ID))

	s.trigger.CallAsync(context.Background(), trigger.BookingConfirmed, s.config.EventTriggers.BookingConfirmedTriggerURL,
		models.BookingConfirmedPayload{
			Reference:   c.Reference,
			Date:        c.Date,
			Time:        c.TimeLabel,
			ProviderID:  c.Provider.ID,
			ServiceID:   c.Service.ID,
			PatientName: c.PatientName,
			Email:       c.Email,
			ConfirmedAt: c.ConfirmedAt,
		})
}

// CreateVisit starts a visit on the appointments panel
func (s *VisitService) CreateVisit(ctx context.Context) (*VisitResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "VisitService.CreateVisit")
	defer span.End()

	visit := s.store.Create()
	span.SetAttributes(attribute.String("visit.id", visit.ID))
	return s.render(ctx, visit)
}

func (s *VisitService) GetVisit(ctx context.Context, visitID string) (*VisitResponse, error) {
	visit, err := s.store.Get(visitID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, visit)
}

// EndVisit tears the visit down, cancelling any pending submission
func (s *VisitService) EndVisit(ctx context.Context, visitID string) error {
	return s.store.Delete(visitID)
}

func (s *VisitService) SwitchPanel(ctx context.Context, visitID, panel string) (*VisitResponse, error) {
	p, err := shell.ParsePanel(panel)
	if err != nil {
		return nil, err
	}
	visit, err := s.store.Get(visitID)
	if err != nil {
		return nil, err
	}
	if err := visit.Shell.SwitchPanel(p); err != nil {
		return nil, err
	}
	return s.render(ctx, visit)
}

// Book hands a doctor or a service over to the wizard. With neither it opens
// a fresh booking without any hand-off.
func (s *VisitService) Book(ctx context.Context, visitID string, req *models.BookRequest) (*VisitResponse, error) {
	if req.ProviderID != nil && req.ServiceID != nil {
		return nil, pkgerrors.InvalidInputError("book", "providerId and serviceId are mutually exclusive")
	}
	visit, err := s.store.Get(visitID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.ProviderID != nil:
		err = visit.Shell.BookProvider(ctx, *req.ProviderID)
	case req.ServiceID != nil:
		err = visit.Shell.BookService(ctx, *req.ServiceID)
	default:
		err = visit.Shell.StartBooking()
	}
	if err != nil {
		return nil, err
	}
	return s.render(ctx, visit)
}

func (s *VisitService) ToggleArticle(ctx context.Context, visitID string, articleID int) (*models.ArticleToggleResponse, error) {
	visit, err := s.store.Get(visitID)
	if err != nil {
		return nil, err
	}
	expanded, err := visit.Shell.ToggleArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return &models.ArticleToggleResponse{ArticleID: articleID, Expanded: expanded}, nil
}

// DrainNotifications returns and clears the visit's notices
func (s *VisitService) DrainNotifications(ctx context.Context, visitID string) (*NotificationsResponse, error) {
	visit, err := s.store.Get(visitID)
	if err != nil {
		return nil, err
	}
	return &NotificationsResponse{VisitID: visit.ID, Notifications: visit.Notifications.Drain()}, nil
}

// Notifier returns the notification sink of a visit
func (s *VisitService) Notifier(visitID string) (notify.Sink, error) {
	visit, err := s.store.Get(visitID)
	if err != nil {
		return nil, err
	}
	return visit.Notifications, nil
}

func (s *VisitService) GetWizard(ctx context.Context, visitID string) (*WizardResponse, error) {
	return s.withWizard(visitID, func(*wizard.Wizard) error { return nil })
}

// SelectDate picks a day of step 1 by its index in the date strip or by YYYY-MM-DD
func (s *VisitService) SelectDate(ctx context.Context, visitID string, req *models.SelectDateRequest) (*WizardResponse, error) {
	if req.Index == nil && req.Date == "" {
		return nil, pkgerrors.InvalidInputError("date", "index or date is required")
	}
	return s.withWizard(visitID, func(w *wizard.Wizard) error {
		if req.Index != nil {
			return w.SelectDateIndex(*req.Index)
		}
		return w.SelectDate(req.Date)
	})
}

func (s *VisitService) SelectSlot(ctx context.Context, visitID string, req *models.SelectSlotRequest) (*WizardResponse, error) {
	return s.withWizard(visitID, func(w *wizard.Wizard) error {
		return w.SelectSlot(req.Time)
	})
}

func (s *VisitService) SelectProvider(ctx context.Context, visitID string, req *models.SelectProviderRequest) (*WizardResponse, error) {
	return s.withWizard(visitID, func(w *wizard.Wizard) error {
		return w.SelectProvider(ctx, req.ProviderID)
	})
}

func (s *VisitService) SelectService(ctx context.Context, visitID string, req *models.SelectServiceRequest) (*WizardResponse, error) {
	return s.withWizard(visitID, func(w *wizard.Wizard) error {
		return w.SelectService(ctx, req.ServiceID)
	})
}

// UpdateContact applies the given field edits in form order and stops at the first rejection
func (s *VisitService) UpdateContact(ctx context.Context, visitID string, req *models.UpdateContactRequest) (*WizardResponse, error) {
	edits := req.Fields()
	if len(edits) == 0 {
		return nil, pkgerrors.InvalidInputError("contact", "at least one field is required")
	}
	return s.withWizard(visitID, func(w *wizard.Wizard) error {
		for _, e := range edits {
			if err := w.UpdateContact(e.Field, e.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *VisitService) Next(ctx context.Context, visitID string) (*WizardResponse, error) {
	return s.withWizard(visitID, (*wizard.Wizard).Next)
}

func (s *VisitService) Back(ctx context.Context, visitID string) (*WizardResponse, error) {
	return s.withWizard(visitID, (*wizard.Wizard).Back)
}

// Submit starts the simulated booking request. The response shows the
// submitting state; the confirmation arrives after the configured delay.
func (s *VisitService) Submit(ctx context.Context, visitID string) (*WizardResponse, error) {
	_, span := tracing.StartSpan(ctx, "VisitService.Submit", attribute.String("visit.id", visitID))
	defer span.End()

	resp, err := s.withWizard(visitID, (*wizard.Wizard).Submit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return resp, nil
}

// Reset starts a new booking after a confirmation
func (s *VisitService) Reset(ctx context.Context, visitID string) (*WizardResponse, error) {
	return s.withWizard(visitID, (*wizard.Wizard).Reset)
}

// ActiveVisits returns the number of live visits
func (s *VisitService) ActiveVisits() int {
	return s.store.Count()
}

// Close ends all visits
func (s *VisitService) Close() {
	s.store.Close()
}

func (s *VisitService) withWizard(visitID string, action func(*wizard.Wizard) error) (*WizardResponse, error) {
	visit, err := s.store.Get(visitID)
	if err != nil {
		return nil, err
	}
	w, err := visit.Shell.Wizard()
	if err != nil {
		return nil, err
	}
	if err := action(w); err != nil {
		return nil, err
	}
	return &WizardResponse{VisitID: visit.ID, Wizard: w.View()}, nil
}

func (s *VisitService) render(ctx context.Context, visit *session.Visit) (*VisitResponse, error) {
	page, err := visit.Shell.Render(ctx)
	if err != nil {
		return nil, err
	}
	return &VisitResponse{VisitID: visit.ID, Page: page}, nil
}
