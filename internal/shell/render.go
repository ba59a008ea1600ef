package shell

import (
	"context"
	"fmt"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/wizard"
)

// Tab is one entry of the panel switcher
type Tab struct {
	Panel  Panel  `json:"panel"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// ProviderCard is a doctor on the doctors panel
type ProviderCard struct {
	models.Provider
	Availability string `json:"availability"`
}

// ArticleCard is a blog post, with the full text only when expanded
type ArticleCard struct {
	models.ArticleSummary
	Expanded bool   `json:"expanded"`
	Body     string `json:"body"`
}

// Handoff is the doctor or service waiting for the wizard
type Handoff struct {
	ProviderID int `json:"providerId,omitempty"`
	ServiceID  int `json:"serviceId,omitempty"`
}

// View is the rendered page. Only the active panel's content is populated.
type View struct {
	Panel     Panel              `json:"panel"`
	Tabs      []Tab              `json:"tabs"`
	Handoff   Handoff            `json:"handoff"`
	Wizard    *wizard.View       `json:"wizard,omitempty"`
	Providers []ProviderCard     `json:"providers,omitempty"`
	Services  []*models.Service  `json:"services,omitempty"`
	Clinic    *models.ClinicInfo `json:"clinic,omitempty"`
	Articles  []ArticleCard      `json:"articles,omitempty"`
}

// Render builds the active panel's view
func (s *Shell) Render(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return View{}, ErrClosed
	}

	v := View{Panel: s.active, Tabs: make([]Tab, 0, len(Panels))}
	for _, p := range Panels {
		v.Tabs = append(v.Tabs, Tab{Panel: p, Label: p.Label(), Active: p == s.active})
	}
	if s.provider != nil {
		v.Handoff.ProviderID = s.provider.ID
	}
	if s.service != nil {
		v.Handoff.ServiceID = s.service.ID
	}

	switch s.active {
	case PanelAppointments:
		if s.wizard != nil {
			wv := s.wizard.View()
			v.Wizard = &wv
		}
	case PanelDoctors:
		providers, err := s.catalog.Providers(ctx)
		if err != nil {
			return View{}, err
		}
		v.Providers = make([]ProviderCard, 0, len(providers))
		for _, p := range providers {
			v.Providers = append(v.Providers, ProviderCard{Provider: *p, Availability: p.AvailabilityLabel()})
		}
	case PanelServices:
		services, err := s.catalog.Services(ctx)
		if err != nil {
			return View{}, err
		}
		v.Services = services
	case PanelContact:
		clinic, err := s.catalog.Clinic(ctx)
		if err != nil {
			return View{}, err
		}
		v.Clinic = clinic
	case PanelBlog:
		articles, err := s.catalog.Articles(ctx)
		if err != nil {
			return View{}, err
		}
		v.Articles = make([]ArticleCard, 0, len(articles))
		for _, a := range articles {
			card := ArticleCard{ArticleSummary: a.Summary(), Expanded: s.expanded[a.ID], Body: a.Excerpt}
			if card.Expanded {
				card.Body = a.Content
			}
			v.Articles = append(v.Articles, card)
		}
	default:
		return View{}, fmt.Errorf("no renderer for panel %q", s.active)
	}

	return v, nil
}
