package shell

import (
	"fmt"
	"strings"

	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
)

// Panel is one tab of the page
type Panel string

const (
	PanelAppointments Panel = "appointments"
	PanelDoctors      Panel = "doctors"
	PanelServices     Panel = "services"
	PanelContact      Panel = "contact"
	PanelBlog         Panel = "blog"
)

// Panels lists every panel in tab order
var Panels = []Panel{PanelAppointments, PanelDoctors, PanelServices, PanelContact, PanelBlog}

// Label is the tab caption
func (p Panel) Label() string {
	switch p {
	case PanelAppointments:
		return "Appointments"
	case PanelDoctors:
		return "Our Doctors"
	case PanelServices:
		return "Services"
	case PanelContact:
		return "Contact"
	case PanelBlog:
		return "Health Tips"
	default:
		return ""
	}
}

// ParsePanel resolves a panel name, case-insensitively
func ParsePanel(s string) (Panel, error) {
	p := Panel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Panels {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown panel %q: %w", s, pkgerrors.ErrInvalidInput)
}
