package models

import "time"

// ContactDetails is the patient form of wizard step 3
type ContactDetails struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Email     string `json:"email" validate:"notblank,looseemail"`
	Phone     string `json:"phone" validate:"notblank,phone10"`
	Notes     string `json:"notes"`
}

// ContactField names one editable field of ContactDetails
type ContactField string

const (
	FieldFirstName ContactField = "firstName"
	FieldLastName  ContactField = "lastName"
	FieldEmail     ContactField = "email"
	FieldPhone     ContactField = "phone"
	FieldNotes     ContactField = "notes"
)

// Set assigns value to the named field and reports whether the field exists
func (c *ContactDetails) Set(field ContactField, value string) bool {
	switch field {
	case FieldFirstName:
		c.FirstName = value
	case FieldLastName:
		c.LastName = value
	case FieldEmail:
		c.Email = value
	case FieldPhone:
		c.Phone = value
	case FieldNotes:
		c.Notes = value
	default:
		return false
	}
	return true
}

// TimeSlot is one 30-minute appointment start
type TimeSlot struct {
	StartTime time.Time `json:"startTime"`
	Label     string    `json:"label"`
	Available bool      `json:"available"`
}

// Confirmation summarizes a completed booking
type Confirmation struct {
	Reference   string    `json:"reference"`
	Date        string    `json:"date"`
	DateLabel   string    `json:"dateLabel"`
	TimeLabel   string    `json:"timeLabel"`
	Provider    Provider  `json:"provider"`
	Service     Service   `json:"service"`
	PatientName string    `json:"patientName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Notes       string    `json:"notes,omitempty"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// BookingConfirmedPayload is sent to the booking-confirmed webhook
type BookingConfirmedPayload struct {
	Reference   string    `json:"reference"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	ProviderID  int       `json:"providerId"`
	ServiceID   int       `json:"serviceId"`
	PatientName string    `json:"patientName"`
	Email       string    `json:"email"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// NotificationKind is the severity of a user notice
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient user-facing notice
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
}
