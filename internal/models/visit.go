package models

// PanelRequest switches the active page panel
type PanelRequest struct {
	Panel string `json:"panel" binding:"required"`
}

// BookRequest hands a doctor or a service to the booking wizard.
// At most one of the two may be set.
type BookRequest struct {
	ProviderID *int `json:"providerId" binding:"omitempty,min=1"`
	ServiceID  *int `json:"serviceId" binding:"omitempty,min=1"`
}

// SelectDateRequest picks a day either by its position in the bookable
// range or by its ISO date
type SelectDateRequest struct {
	Index *int   `json:"index" binding:"omitempty,min=0"`
	Date  string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// SelectSlotRequest picks a time slot by label ("2:30 PM") or 24-hour start ("14:30")
type SelectSlotRequest struct {
	Time string `json:"time" binding:"required"`
}

// SelectProviderRequest picks the doctor in wizard step 2
type SelectProviderRequest struct {
	ProviderID int `json:"providerId" binding:"required,min=1"`
}

// SelectServiceRequest picks the service in wizard step 2
type SelectServiceRequest struct {
	ServiceID int `json:"serviceId" binding:"required,min=1"`
}

// UpdateContactRequest edits any subset of the step 3 fields
type UpdateContactRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,max=254"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	Notes     *string `json:"notes" binding:"omitempty,max=2000"`
}

// Fields returns the edits in form order
func (r *UpdateContactRequest) Fields() []ContactEdit {
	var edits []ContactEdit
	add := func(field ContactField, v *string) {
		if v != nil {
			edits = append(edits, ContactEdit{Field: field, Value: *v})
		}
	}
	add(FieldFirstName, r.FirstName)
	add(FieldLastName, r.LastName)
	add(FieldEmail, r.Email)
	add(FieldPhone, r.Phone)
	add(FieldNotes, r.Notes)
	return edits
}

// ContactEdit is one field assignment
type ContactEdit struct {
	Field ContactField
	Value string
}

// ArticleToggleResponse reports the new expansion state of an article
type ArticleToggleResponse struct {
	ArticleID int  `json:"articleId"`
	Expanded  bool `json:"expanded"`
}
