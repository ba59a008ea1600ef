package wizard

import (
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
)

// Rejection is a wizard action that was refused. State is unchanged when one
// is returned. Code is stable and safe to expose to clients.
type Rejection struct {
	Code    string
	Message string
	kind    error
}

func (r *Rejection) Error() string { return r.Message }

// Unwrap exposes the error category so callers can map it to a status
func (r *Rejection) Unwrap() error { return r.kind }

func invalid(code, message string) *Rejection {
	return &Rejection{Code: code, Message: message, kind: pkgerrors.ErrInvalidInput}
}

func conflict(code, message string) *Rejection {
	return &Rejection{Code: code, Message: message, kind: pkgerrors.ErrConflict}
}

// Step gate rejections. Their messages are also raised as error notifications.
var (
	ErrDateRequired     = invalid("date_required", "Please select a date for your appointment")
	ErrTimeRequired     = invalid("time_required", "Please select a time slot for your appointment")
	ErrProviderRequired = invalid("provider_required", "Please select a doctor for your appointment")
	ErrServiceRequired  = invalid("service_required", "Please select a service for your appointment")
	ErrInvalidContact   = invalid("invalid_contact", "Please fill in all required fields correctly")
)

// Selection and navigation rejections
var (
	ErrDateOutOfRange  = invalid("date_out_of_range", "Selected date is not available for booking")
	ErrUnknownSlot     = invalid("unknown_slot", "Selected time slot does not exist")
	ErrSlotUnavailable = invalid("slot_unavailable", "Selected time slot is not available")
	ErrUnknownProvider = invalid("unknown_provider", "Selected doctor does not exist")
	ErrUnknownService  = invalid("unknown_service", "Selected service does not exist")
	ErrUnknownField    = invalid("unknown_field", "Unknown contact field")
	ErrWrongStep       = invalid("wrong_step", "Action is not available at this step")
	ErrNotConfirmed    = invalid("not_confirmed", "No confirmed booking to start over from")
	ErrSubmitting      = conflict("submitting", "Booking is being submitted")
	ErrClosed          = conflict("closed", "Booking wizard is closed")
)
