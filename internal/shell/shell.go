// Package shell models the tabbed clinic page of one visitor: the active
// panel, the doctor or service handed to the booking wizard, and which blog
// articles are expanded.
package shell

import (
	"context"
	"sync"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/notify"
	"github.com/clinicconnect/clinicconnect-api/internal/wizard"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"go.uber.org/zap"
)

var (
	// ErrWizardNotMounted is returned for wizard actions while another panel is active
	ErrWizardNotMounted = pkgerrors.ConflictError("booking wizard is only available on the appointments panel")

	// ErrClosed is returned after the visit ended
	ErrClosed = pkgerrors.ConflictError("visit closed")
)

// Catalog is the content the panels render
type Catalog interface {
	Providers(ctx context.Context) ([]*models.Provider, error)
	ProviderByID(ctx context.Context, id int) (*models.Provider, error)
	Services(ctx context.Context) ([]*models.Service, error)
	ServiceByID(ctx context.Context, id int) (*models.Service, error)
	Articles(ctx context.Context) ([]*models.Article, error)
	ArticleByID(ctx context.Context, id int) (*models.Article, error)
	Clinic(ctx context.Context) (*models.ClinicInfo, error)
}

// WizardFactory mounts a new booking wizard
type WizardFactory func(pre wizard.Preselection) *wizard.Wizard

// Shell is one visitor's page state. All methods are safe for concurrent use.
type Shell struct {
	mu        sync.Mutex
	catalog   Catalog
	newWizard WizardFactory
	notifier  notify.Sink

	active   Panel
	wizard   *wizard.Wizard
	provider *models.Provider
	service  *models.Service
	expanded map[int]bool
	closed   bool
}

// New creates a shell on the appointments panel with a fresh wizard
func New(catalog Catalog, newWizard WizardFactory, notifier notify.Sink) *Shell {
	if notifier == nil {
		notifier = notify.Discard
	}
	s := &Shell{
		catalog:   catalog,
		newWizard: newWizard,
		notifier:  notifier,
		active:    PanelAppointments,
		expanded:  map[int]bool{},
	}
	s.wizard = newWizard(wizard.Preselection{})
	return s
}

// Active returns the current panel
func (s *Shell) Active() Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SwitchPanel activates p. Leaving the appointments panel tears the wizard
// down; entering it mounts a new one with the current hand-off.
func (s *Shell) SwitchPanel(p Panel) error {
	parsed, err := ParsePanel(string(p))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.switchLocked(parsed)
	return nil
}

// BookProvider hands a doctor to the wizard and opens the appointments panel
func (s *Shell) BookProvider(ctx context.Context, id int) error {
	p, err := s.catalog.ProviderByID(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	chosen := *p
	s.provider = &chosen
	s.service = nil
	s.remountLocked()
	s.notifier.Notify(models.NotificationSuccess, p.Name+" selected for appointment")
	return nil
}

// BookService hands a service to the wizard and opens the appointments panel
func (s *Shell) BookService(ctx context.Context, id int) error {
	svc, err := s.catalog.ServiceByID(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	chosen := *svc
	s.service = &chosen
	s.provider = nil
	s.remountLocked()
	s.notifier.Notify(models.NotificationInfo, svc.Name+" service selected")
	return nil
}

// StartBooking opens the appointments panel without any hand-off
func (s *Shell) StartBooking() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.provider = nil
	s.service = nil
	s.remountLocked()
	return nil
}

// ToggleArticle expands or collapses a blog article and returns its new state
func (s *Shell) ToggleArticle(ctx context.Context, id int) (bool, error) {
	a, err := s.catalog.ArticleByID(ctx, id)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	expanded := !s.expanded[a.ID]
	if expanded {
		s.expanded[a.ID] = true
	} else {
		delete(s.expanded, a.ID)
	}
	s.notifier.Notify(models.NotificationInfo, `Reading "`+a.Title+`" article`)
	return expanded, nil
}

// Wizard returns the mounted wizard
func (s *Shell) Wizard() (*wizard.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.active != PanelAppointments || s.wizard == nil {
		return nil, ErrWizardNotMounted
	}
	return s.wizard, nil
}

// Close tears down the wizard. Safe to call more than once.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.unmountLocked()
}

func (s *Shell) switchLocked(p Panel) {
	if p == s.active {
		return
	}

	if s.active == PanelAppointments {
		s.unmountLocked()
	}
	s.active = p
	if p == PanelAppointments {
		s.mountLocked()
	}

	metrics.PanelSwitches.WithLabelValues(string(p)).Inc()
	logger.Debug("Panel switched", zap.String("panel", string(p)))
}

// remountLocked shows the appointments panel with a wizard built from the
// current hand-off, replacing any wizard already mounted
func (s *Shell) remountLocked() {
	if s.active != PanelAppointments {
		s.switchLocked(PanelAppointments)
		return
	}
	s.unmountLocked()
	s.mountLocked()
}

func (s *Shell) mountLocked() {
	s.wizard = s.newWizard(wizard.Preselection{Provider: s.provider, Service: s.service})
}

func (s *Shell) unmountLocked() {
	if s.wizard != nil {
		s.wizard.Close()
		s.wizard = nil
	}
}
