package services

import (
	"CogniCare/models"
	"CogniCare/utils"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppointmentRepo struct {
	appointments map[uint]*models.Appointment
	reminders    map[uint][]models.AppointmentReminder
	lastFields   map[string]interface{}
	nextID       uint
}

func newFakeAppointmentRepo(appointments ...*models.Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{
		appointments: map[uint]*models.Appointment{},
		reminders:    map[uint][]models.AppointmentReminder{},
		nextID:       1,
	}
	for _, a := range appointments {
		repo.appointments[a.ID] = a
		if a.ID >= repo.nextID {
			repo.nextID = a.ID + 1
		}
	}
	return repo
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appointment *models.Appointment, reminders []models.AppointmentReminder) error {
	appointment.ID = f.nextID
	f.nextID++
	f.appointments[appointment.ID] = appointment
	f.reminders[appointment.ID] = reminders
	return nil
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	return f.appointments[id], nil
}

func (f *fakeAppointmentRepo) GetAll(ctx context.Context) ([]models.Appointment, error) {
	var all []models.Appointment
	for _, a := range f.appointments {
		all = append(all, *a)
	}
	return all, nil
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	a, ok := f.appointments[id]
	if !ok {
		return errors.New("appointment not found")
	}
	f.lastFields = fields
	if status, ok := fields["status"].(string); ok {
		a.Status = status
	}
	if scheduledAt, ok := fields["scheduled_at"].(time.Time); ok {
		a.ScheduledAt = scheduledAt
	}
	if duration, ok := fields["duration"].(int); ok {
		a.Duration = duration
	}
	return nil
}

func (f *fakeAppointmentRepo) DeleteWithReminders(ctx context.Context, id uint) error {
	delete(f.appointments, id)
	delete(f.reminders, id)
	return nil
}

type fakeMeetingClient struct {
	failCreate bool
	failUpdate bool
	failDelete bool
	created    int
	updated    []string
	deleted    []string
}

func (f *fakeMeetingClient) CreateMeeting(ctx context.Context, topic string, startTime time.Time, duration int) (*utils.Meeting, error) {
	if f.failCreate {
		return nil, errors.New("provider unavailable")
	}
	f.created++
	return &utils.Meeting{ID: "mtg-123", JoinURL: "https://meet.example/mtg-123"}, nil
}

func (f *fakeMeetingClient) UpdateMeeting(ctx context.Context, meetingID string, startTime time.Time, duration int) error {
	if f.failUpdate {
		return errors.New("provider unavailable")
	}
	f.updated = append(f.updated, meetingID)
	return nil
}

func (f *fakeMeetingClient) DeleteMeeting(ctx context.Context, meetingID string) error {
	if f.failDelete {
		return errors.New("provider unavailable")
	}
	f.deleted = append(f.deleted, meetingID)
	return nil
}

type appointmentFixture struct {
	service          *AppointmentService
	appointmentRepo  *fakeAppointmentRepo
	notificationRepo *fakeNotificationRepo
	meetings         *fakeMeetingClient
	mailer           *fakeMailer
}

func newAppointmentFixture(patient *models.Patient, appointments ...*models.Appointment) *appointmentFixture {
	appointmentRepo := newFakeAppointmentRepo(appointments...)
	notificationRepo := &fakeNotificationRepo{}
	meetings := &fakeMeetingClient{}
	mailer := &fakeMailer{}
	service := NewAppointmentService(appointmentRepo, newFakePatientRepo(patient), notificationRepo, meetings, mailer)
	return &appointmentFixture{
		service:          service,
		appointmentRepo:  appointmentRepo,
		notificationRepo: notificationRepo,
		meetings:         meetings,
		mailer:           mailer,
	}
}

func testPatient() *models.Patient {
	return &models.Patient{ID: "MRN-2026-00003", FullName: "Sami Haddad", Email: "sami@example.com"}
}

func scheduleRequest(appointmentType string) models.ScheduleAppointmentRequest {
	return models.ScheduleAppointmentRequest{
		PatientID:   "MRN-2026-00003",
		Type:        appointmentType,
		ScheduledAt: time.Date(2026, 10, 5, 14, 0, 0, 0, time.UTC),
		Duration:    45,
	}
}

func TestScheduleForbiddenForNonStaff(t *testing.T) {
	f := newAppointmentFixture(testPatient())
	_, _, err := f.service.Schedule(context.Background(), userCaller, scheduleRequest(models.AppointmentTypeInPerson))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestScheduleRejectsBadDuration(t *testing.T) {
	f := newAppointmentFixture(testPatient())
	req := scheduleRequest(models.AppointmentTypeInPerson)
	req.Duration = 5
	_, _, err := f.service.Schedule(context.Background(), staffCaller, req)
	require.Error(t, err)

	req.Duration = 240
	_, _, err = f.service.Schedule(context.Background(), staffCaller, req)
	require.Error(t, err)
}

func TestScheduleUnknownPatient(t *testing.T) {
	f := newAppointmentFixture(testPatient())
	req := scheduleRequest(models.AppointmentTypeInPerson)
	req.PatientID = "MRN-2026-99999"
	_, _, err := f.service.Schedule(context.Background(), staffCaller, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleVirtualCreatesMeeting(t *testing.T) {
	f := newAppointmentFixture(testPatient())
	appointment, warnings, err := f.service.Schedule(context.Background(), staffCaller, scheduleRequest(models.AppointmentTypeVirtual))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "mtg-123", appointment.MeetingID)
	assert.Equal(t, models.AppointmentStatusScheduled, appointment.Status)

	reminders := f.appointmentRepo.reminders[appointment.ID]
	require.Len(t, reminders, 1)
	assert.Equal(t, appointment.ScheduledAt.Add(-24*time.Hour), reminders[0].RemindAt)
	assert.Equal(t, "EMAIL", reminders[0].Channel)
}

func TestScheduleVirtualProviderFailureIsWarning(t *testing.T) {
	f := newAppointmentFixture(testPatient())
	f.meetings.failCreate = true

	appointment, warnings, err := f.service.Schedule(context.Background(), staffCaller, scheduleRequest(models.AppointmentTypeVirtual))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Empty(t, appointment.MeetingID)
	assert.NotZero(t, appointment.ID)
}

func TestScheduleInPersonSkipsProvider(t *testing.T) {
	f := newAppointmentFixture(testPatient())
	appointment, warnings, err := f.service.Schedule(context.Background(), staffCaller, scheduleRequest(models.AppointmentTypeInPerson))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Zero(t, f.meetings.created)
	assert.Empty(t, appointment.MeetingID)
}

func existingAppointment() *models.Appointment {
	assessmentID := uint(5)
	return &models.Appointment{
		ID:           7,
		PatientID:    "MRN-2026-00003",
		AssessmentID: &assessmentID,
		Type:         models.AppointmentTypeVirtual,
		Status:       models.AppointmentStatusScheduled,
		ScheduledAt:  time.Date(2026, 10, 5, 14, 0, 0, 0, time.UTC),
		Duration:     45,
		MeetingID:    "mtg-123",
		Patient:      *testPatient(),
		Assessment:   &models.Assessment{ID: 5, Language: "ar"},
	}
}

func TestGetByIDOwnershipCheck(t *testing.T) {
	f := newAppointmentFixture(testPatient(), existingAppointment())

	appointment, err := f.service.GetByID(context.Background(), userCaller, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), appointment.ID)

	stranger := models.Caller{ID: 99, Role: models.RoleUser, Email: "other@example.com"}
	_, err = f.service.GetByID(context.Background(), stranger, 7)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.GetByID(context.Background(), models.Caller{ID: 98, Role: models.RoleUser}, 7)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateRescheduleSyncsMeeting(t *testing.T) {
	f := newAppointmentFixture(testPatient(), existingAppointment())
	newTime := time.Date(2026, 10, 6, 9, 0, 0, 0, time.UTC)

	_, warnings, err := f.service.Update(context.Background(), staffCaller, 7, models.UpdateAppointmentRequest{ScheduledAt: &newTime})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"mtg-123"}, f.meetings.updated)
}

func TestUpdateRescheduleSyncFailureIsWarning(t *testing.T) {
	f := newAppointmentFixture(testPatient(), existingAppointment())
	f.meetings.failUpdate = true
	newTime := time.Date(2026, 10, 6, 9, 0, 0, 0, time.UTC)

	updated, warnings, err := f.service.Update(context.Background(), staffCaller, 7, models.UpdateAppointmentRequest{ScheduledAt: &newTime})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.True(t, updated.ScheduledAt.Equal(newTime))
}

func TestUpdateStatusChangeNotifiesInAssessmentLanguage(t *testing.T) {
	f := newAppointmentFixture(testPatient(), existingAppointment())
	confirmed := models.AppointmentStatusConfirmed

	_, _, err := f.service.Update(context.Background(), staffCaller, 7, models.UpdateAppointmentRequest{Status: &confirmed})
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "sami@example.com", f.mailer.sent[0].to)
	assert.Equal(t, "تم تأكيد الموعد", f.mailer.sent[0].subject)

	require.Len(t, f.notificationRepo.appended, 1)
	assert.True(t, f.notificationRepo.appended[0].Sent)
	assert.Equal(t, uint(5), f.notificationRepo.appended[0].AssessmentID)
}

func TestUpdateStatusWithoutCatalogEntrySendsNothing(t *testing.T) {
	f := newAppointmentFixture(testPatient(), existingAppointment())
	inProgress := models.AppointmentStatusInProgress

	_, _, err := f.service.Update(context.Background(), staffCaller, 7, models.UpdateAppointmentRequest{Status: &inProgress})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.notificationRepo.appended)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	f := newAppointmentFixture(testPatient(), existingAppointment())
	_, err := f.service.Delete(context.Background(), staffCaller, 7)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteRemovesMeetingAndNotifies(t *testing.T) {
	f := newAppointmentFixture(testPatient(), existingAppointment())

	warnings, err := f.service.Delete(context.Background(), adminCaller, 7)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"mtg-123"}, f.meetings.deleted)
	assert.NotContains(t, f.appointmentRepo.appointments, uint(7))

	require.Len(t, f.notificationRepo.appended, 1)
	assert.Equal(t, "تم إلغاء الموعد", f.notificationRepo.appended[0].Subject)
}

func TestDeleteProviderFailureStillDeletes(t *testing.T) {
	f := newAppointmentFixture(testPatient(), existingAppointment())
	f.meetings.failDelete = true

	warnings, err := f.service.Delete(context.Background(), adminCaller, 7)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.NotContains(t, f.appointmentRepo.appointments, uint(7))
}
