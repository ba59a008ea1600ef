package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinicconnect/clinicconnect-api/config"
	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/clinicconnect/clinicconnect-api/internal/session"
	"github.com/clinicconnect/clinicconnect-api/internal/shell"
	"github.com/clinicconnect/clinicconnect-api/internal/slots"
	"github.com/clinicconnect/clinicconnect-api/internal/validation"
	"github.com/clinicconnect/clinicconnect-api/internal/wizard"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
	"github.com/clinicconnect/clinicconnect-api/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const bookedURL = "http://hooks.local/booked"

type visitFixture struct {
	service   *services.VisitService
	caller    *MockTriggerCaller
	scheduler *manualScheduler
}

func newVisitFixture(t *testing.T) *visitFixture {
	t.Helper()

	cfg := &config.Config{
		Booking: config.BookingConfig{
			SubmitDelay: 1500 * time.Millisecond,
			DaysAhead:   7,
		},
		Session: config.SessionConfig{
			TTLMinutes:       30,
			MaxNotifications: 20,
		},
		EventTriggers: config.EventTriggersConfig{
			BookingConfirmedTriggerURL: bookedURL,
		},
	}

	f := &visitFixture{caller: new(MockTriggerCaller), scheduler: &manualScheduler{}}
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	f.service = services.NewVisitService(
		cfg,
		newCatalogRepository(t),
		slots.NewGenerator(1, 1, time.UTC),
		validation.NewContactValidator(),
		f.caller,
	).WithScheduler(f.scheduler).WithClock(func() time.Time { return now })
	t.Cleanup(f.service.Close)
	return f
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestVisitService_CreateVisit(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()

	resp, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.VisitID)
	assert.Equal(t, shell.PanelAppointments, resp.Page.Panel)
	require.NotNil(t, resp.Page.Wizard)
	assert.Equal(t, wizard.StepDateTime, resp.Page.Wizard.Step)
	assert.Len(t, resp.Page.Wizard.Dates, 7)
	assert.Equal(t, 1, f.service.ActiveVisits())
}

func TestVisitService_UnknownVisit(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()

	_, err := f.service.GetVisit(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 404, pkgerrors.HTTPStatus(err))

	_, err = f.service.Next(ctx, "missing")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	assert.ErrorIs(t, f.service.EndVisit(ctx, "missing"), pkgerrors.ErrNotFound)
}

func TestVisitService_NextWithOnlyDateStaysOnStepOne(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)

	_, err = f.service.SelectDate(ctx, visit.VisitID, &models.SelectDateRequest{Index: intPtr(0)})
	require.NoError(t, err)

	_, err = f.service.Next(ctx, visit.VisitID)
	assert.ErrorIs(t, err, wizard.ErrTimeRequired)
	assert.Equal(t, 422, pkgerrors.HTTPStatus(err))

	w, err := f.service.GetWizard(ctx, visit.VisitID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepDateTime, w.Wizard.Step)

	notes, err := f.service.DrainNotifications(ctx, visit.VisitID)
	require.NoError(t, err)
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, models.NotificationError, notes.Notifications[0].Kind)
	assert.Equal(t, wizard.ErrTimeRequired.Message, notes.Notifications[0].Message)

	notes, err = f.service.DrainNotifications(ctx, visit.VisitID)
	require.NoError(t, err)
	assert.Empty(t, notes.Notifications)
}

func TestVisitService_SelectDateRequiresIndexOrDate(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)

	_, err = f.service.SelectDate(ctx, visit.VisitID, &models.SelectDateRequest{})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)

	resp, err := f.service.SelectDate(ctx, visit.VisitID, &models.SelectDateRequest{Date: "2026-03-04"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", resp.Wizard.SelectedDate)
	assert.Len(t, resp.Wizard.Slots, slots.PerDay)
}

func TestVisitService_EndToEndBooking(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)
	id := visit.VisitID

	resp, err := f.service.SelectDate(ctx, id, &models.SelectDateRequest{Index: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", resp.Wizard.SelectedDate)

	_, err = f.service.SelectSlot(ctx, id, &models.SelectSlotRequest{Time: "10:30"})
	require.NoError(t, err)
	_, err = f.service.Next(ctx, id)
	require.NoError(t, err)

	_, err = f.service.SelectProvider(ctx, id, &models.SelectProviderRequest{ProviderID: 1})
	require.NoError(t, err)
	_, err = f.service.SelectService(ctx, id, &models.SelectServiceRequest{ServiceID: 2})
	require.NoError(t, err)
	resp, err = f.service.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepContact, resp.Wizard.Step)

	_, err = f.service.UpdateContact(ctx, id, &models.UpdateContactRequest{
		FirstName: strPtr("Jane"),
		LastName:  strPtr("Smith"),
		Email:     strPtr("jane@x.com"),
		Phone:     strPtr("1234567890"),
	})
	require.NoError(t, err)

	resp, err = f.service.Submit(ctx, id)
	require.NoError(t, err)
	assert.True(t, resp.Wizard.Submitting)

	_, err = f.service.Back(ctx, id)
	assert.ErrorIs(t, err, wizard.ErrSubmitting)
	assert.Equal(t, 409, pkgerrors.HTTPStatus(err))

	var payload models.BookingConfirmedPayload
	f.caller.On("CallAsync", mock.Anything, trigger.BookingConfirmed, bookedURL, mock.AnythingOfType("models.BookingConfirmedPayload")).
		Run(func(args mock.Arguments) { payload = args.Get(3).(models.BookingConfirmedPayload) }).
		Once()

	f.scheduler.FireAll()

	resp, err = f.service.GetWizard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepConfirmed, resp.Wizard.Step)
	require.NotNil(t, resp.Wizard.Confirmation)
	c := resp.Wizard.Confirmation
	assert.Equal(t, "March 4, 2026", c.DateLabel)
	assert.Equal(t, "10:30 AM", c.TimeLabel)
	assert.Equal(t, "Dr. Sarah Johnson", c.Provider.Name)
	assert.Equal(t, "Consultation", c.Service.Name)
	assert.Equal(t, "Jane Smith", c.PatientName)
	assert.Equal(t, "jane@x.com", c.Email)

	f.caller.AssertExpectations(t)
	assert.Equal(t, c.Reference, payload.Reference)
	assert.Equal(t, 1, payload.ProviderID)
	assert.Equal(t, 2, payload.ServiceID)

	notes, err := f.service.DrainNotifications(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, notes.Notifications)
	assert.Equal(t, models.NotificationSuccess, notes.Notifications[0].Kind)

	resp, err = f.service.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepDateTime, resp.Wizard.Step)
	assert.Empty(t, resp.Wizard.SelectedDate)
	assert.Nil(t, resp.Wizard.Provider)
	assert.Nil(t, resp.Wizard.Confirmation)
}

func TestVisitService_EndVisitCancelsSubmission(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)
	id := visit.VisitID

	_, err = f.service.SelectDate(ctx, id, &models.SelectDateRequest{Index: intPtr(0)})
	require.NoError(t, err)
	_, err = f.service.SelectSlot(ctx, id, &models.SelectSlotRequest{Time: "9:00 AM"})
	require.NoError(t, err)
	_, err = f.service.Next(ctx, id)
	require.NoError(t, err)
	_, err = f.service.SelectProvider(ctx, id, &models.SelectProviderRequest{ProviderID: 2})
	require.NoError(t, err)
	_, err = f.service.SelectService(ctx, id, &models.SelectServiceRequest{ServiceID: 1})
	require.NoError(t, err)
	_, err = f.service.Next(ctx, id)
	require.NoError(t, err)
	_, err = f.service.UpdateContact(ctx, id, &models.UpdateContactRequest{
		FirstName: strPtr("John"),
		LastName:  strPtr("Doe"),
		Email:     strPtr("john@example.com"),
		Phone:     strPtr("(555) 123-4567"),
	})
	require.NoError(t, err)
	_, err = f.service.Submit(ctx, id)
	require.NoError(t, err)

	require.NoError(t, f.service.EndVisit(ctx, id))
	f.scheduler.FireAll()

	f.caller.AssertNotCalled(t, "CallAsync", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	_, err = f.service.GetVisit(ctx, id)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
	assert.Equal(t, 0, f.service.ActiveVisits())
}

func TestVisitService_InvalidContactKeepsStep(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)
	id := visit.VisitID

	_, err = f.service.Book(ctx, id, &models.BookRequest{ProviderID: intPtr(3)})
	require.NoError(t, err)
	_, err = f.service.SelectDate(ctx, id, &models.SelectDateRequest{Index: intPtr(1)})
	require.NoError(t, err)
	_, err = f.service.SelectSlot(ctx, id, &models.SelectSlotRequest{Time: "13:00"})
	require.NoError(t, err)
	_, err = f.service.Next(ctx, id)
	require.NoError(t, err)
	_, err = f.service.SelectService(ctx, id, &models.SelectServiceRequest{ServiceID: 4})
	require.NoError(t, err)
	_, err = f.service.Next(ctx, id)
	require.NoError(t, err)

	_, err = f.service.UpdateContact(ctx, id, &models.UpdateContactRequest{FirstName: strPtr("   ")})
	require.NoError(t, err)

	_, err = f.service.Submit(ctx, id)
	assert.ErrorIs(t, err, wizard.ErrInvalidContact)

	resp, err := f.service.GetWizard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepContact, resp.Wizard.Step)
	assert.NotEmpty(t, resp.Wizard.Errors)
	assert.Contains(t, resp.Wizard.Errors, "firstName")
}

func TestVisitService_UpdateContactRequiresAField(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)

	_, err = f.service.UpdateContact(ctx, visit.VisitID, &models.UpdateContactRequest{})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
}

func TestVisitService_BookProviderPreselects(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)

	_, err = f.service.SwitchPanel(ctx, visit.VisitID, "doctors")
	require.NoError(t, err)

	_, err = f.service.Next(ctx, visit.VisitID)
	assert.ErrorIs(t, err, shell.ErrWizardNotMounted)

	resp, err := f.service.Book(ctx, visit.VisitID, &models.BookRequest{ProviderID: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, shell.PanelAppointments, resp.Page.Panel)
	require.NotNil(t, resp.Page.Wizard)
	require.NotNil(t, resp.Page.Wizard.Provider)
	assert.Equal(t, 2, resp.Page.Wizard.Provider.ID)

	notes, err := f.service.DrainNotifications(ctx, visit.VisitID)
	require.NoError(t, err)
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, "Dr. Michael Chen selected for appointment", notes.Notifications[0].Message)
}

func TestVisitService_BookRejectsBothIDs(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)

	_, err = f.service.Book(ctx, visit.VisitID, &models.BookRequest{ProviderID: intPtr(1), ServiceID: intPtr(1)})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)

	_, err = f.service.Book(ctx, visit.VisitID, &models.BookRequest{ServiceID: intPtr(99)})
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestVisitService_BookWithoutHandoffStartsFresh(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)

	_, err = f.service.Book(ctx, visit.VisitID, &models.BookRequest{ProviderID: intPtr(2)})
	require.NoError(t, err)
	_, err = f.service.DrainNotifications(ctx, visit.VisitID)
	require.NoError(t, err)

	resp, err := f.service.Book(ctx, visit.VisitID, &models.BookRequest{})
	require.NoError(t, err)
	assert.Equal(t, shell.PanelAppointments, resp.Page.Panel)
	assert.Zero(t, resp.Page.Handoff.ProviderID)
	require.NotNil(t, resp.Page.Wizard)
	assert.Nil(t, resp.Page.Wizard.Provider)

	notes, err := f.service.DrainNotifications(ctx, visit.VisitID)
	require.NoError(t, err)
	assert.Empty(t, notes.Notifications)
}

func TestVisitService_SwitchPanelRejectsUnknown(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)

	_, err = f.service.SwitchPanel(ctx, visit.VisitID, "pharmacy")
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))

	resp, err := f.service.SwitchPanel(ctx, visit.VisitID, "services")
	require.NoError(t, err)
	assert.Equal(t, shell.PanelServices, resp.Page.Panel)
	assert.Len(t, resp.Page.Services, 5)
	assert.Nil(t, resp.Page.Wizard)
}

func TestVisitService_ToggleArticle(t *testing.T) {
	f := newVisitFixture(t)
	ctx := context.Background()
	visit, err := f.service.CreateVisit(ctx)
	require.NoError(t, err)

	resp, err := f.service.ToggleArticle(ctx, visit.VisitID, 1)
	require.NoError(t, err)
	assert.True(t, resp.Expanded)

	resp, err = f.service.ToggleArticle(ctx, visit.VisitID, 1)
	require.NoError(t, err)
	assert.False(t, resp.Expanded)

	_, err = f.service.ToggleArticle(ctx, visit.VisitID, 42)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}
