package models

// ContactMessageRequest is the "send us a message" form on the contact panel
type ContactMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ContactMessageResponse represents the response after submitting a contact message
type ContactMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewsletterRequest subscribes an address to health tips
type NewsletterRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// NewsletterResponse reports the subscription outcome
type NewsletterResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	AlreadySubscribed bool   `json:"alreadySubscribed,omitempty"`
}

// ThemePreference is the stored dark mode flag for one client
type ThemePreference struct {
	ClientID string `json:"clientId"`
	DarkMode bool   `json:"darkMode"`
}

// ThemeToggleResponse carries the new flag and its notice
type ThemeToggleResponse struct {
	ThemePreference
	Notification Notification `json:"notification"`
}
