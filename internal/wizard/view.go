package wizard

import (
	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/validation"
)

// DateOption is one day button of step 1
type DateOption struct {
	Index    int    `json:"index"`
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
	Day      string `json:"day"`
	Month    string `json:"month"`
	Selected bool   `json:"selected"`
}

// View is a snapshot of the wizard for rendering
type View struct {
	Step         Step                  `json:"step"`
	StepNumber   int                   `json:"stepNumber"`
	Dates        []DateOption          `json:"dates"`
	SelectedDate string                `json:"selectedDate,omitempty"`
	Slots        []models.TimeSlot     `json:"slots"`
	SelectedSlot string                `json:"selectedSlot,omitempty"`
	Provider     *models.Provider      `json:"provider,omitempty"`
	Service      *models.Service       `json:"service,omitempty"`
	Contact      models.ContactDetails `json:"contact"`
	Errors       validation.Errors     `json:"errors"`
	Submitting   bool                  `json:"submitting"`
	Confirmation *models.Confirmation  `json:"confirmation,omitempty"`
}

// View returns a copy of the current state
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Step:       w.step,
		StepNumber: w.step.Number(),
		Dates:      make([]DateOption, len(w.dates)),
		Slots:      make([]models.TimeSlot, len(w.slots)),
		Contact:    w.contact,
		Errors:     make(validation.Errors, len(w.errors)),
		Submitting: w.step == StepSubmitting,
	}

	for i, d := range w.dates {
		v.Dates[i] = DateOption{
			Index:    i,
			Date:     d.Format(dateLayout),
			Weekday:  d.Format("Mon"),
			Day:      d.Format("2"),
			Month:    d.Format("Jan"),
			Selected: w.date != nil && d.Equal(*w.date),
		}
	}
	copy(v.Slots, w.slots)
	for k, msg := range w.errors {
		v.Errors[k] = msg
	}

	if w.date != nil {
		v.SelectedDate = w.date.Format(dateLayout)
	}
	if w.slot != nil {
		v.SelectedSlot = w.slot.Label
	}
	if w.provider != nil {
		p := *w.provider
		v.Provider = &p
	}
	if w.service != nil {
		s := *w.service
		v.Service = &s
	}
	if w.confirmation != nil {
		c := *w.confirmation
		v.Confirmation = &c
	}

	return v
}
