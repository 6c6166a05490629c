package services

import (
	"CogniCare/models"
	"CogniCare/repositories"
	"CogniCare/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
)

type AppointmentService struct {
	appointmentRepo  repositories.AppointmentRepository
	patientRepo      repositories.PatientRepository
	notificationRepo repositories.NotificationRepository
	meetings         utils.MeetingClient
	mailer           utils.EmailSender
}

func NewAppointmentService(
	appointmentRepo repositories.AppointmentRepository,
	patientRepo repositories.PatientRepository,
	notificationRepo repositories.NotificationRepository,
	meetings utils.MeetingClient,
	mailer utils.EmailSender,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo:  appointmentRepo,
		patientRepo:      patientRepo,
		notificationRepo: notificationRepo,
		meetings:         meetings,
		mailer:           mailer,
	}
}

// Schedule creates an appointment with a reminder a day ahead. VIRTUAL
// appointments get an external meeting resource; provider failure downgrades
// to a warning and the appointment is still created.
func (s *AppointmentService) Schedule(ctx context.Context, caller models.Caller, req models.ScheduleAppointmentRequest) (*models.Appointment, []string, error) {
	if !caller.IsStaff() {
		return nil, nil, ErrForbidden
	}
	if err := utils.ValidateScheduleAppointmentRequest(req); err != nil {
		return nil, nil, err
	}

	patient, err := s.patientRepo.GetByID(ctx, req.PatientID)
	if err != nil {
		return nil, nil, err
	}
	if patient == nil {
		return nil, nil, ErrNotFound
	}

	appointment := &models.Appointment{
		PatientID:    req.PatientID,
		AssessmentID: req.AssessmentID,
		Type:         req.Type,
		Status:       models.AppointmentStatusScheduled,
		ScheduledAt:  req.ScheduledAt,
		Duration:     req.Duration,
		Notes:        req.Notes,
	}

	var warnings []string
	if req.Type == models.AppointmentTypeVirtual {
		topic := fmt.Sprintf("Consultation with %s", patient.FullName)
		meeting, err := s.meetings.CreateMeeting(ctx, topic, req.ScheduledAt, req.Duration)
		if err != nil {
			log.Printf("Failed to create external meeting for patient %s: %v", req.PatientID, err)
			warnings = append(warnings, "virtual meeting could not be created")
		} else {
			appointment.MeetingID = meeting.ID
			if data, err := json.Marshal(meeting); err == nil {
				appointment.MeetingData = datatypes.JSON(data)
			}
		}
	}

	reminders := []models.AppointmentReminder{
		{RemindAt: req.ScheduledAt.Add(-24 * time.Hour), Channel: "EMAIL"},
	}
	if err := s.appointmentRepo.Create(ctx, appointment, reminders); err != nil {
		return nil, nil, err
	}
	return appointment, warnings, nil
}

// GetByID returns an appointment with its assessment summary. Non-staff
// callers may only read appointments for the patient whose contact email
// matches their own identity.
func (s *AppointmentService) GetByID(ctx context.Context, caller models.Caller, id uint) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrNotFound
	}
	if !caller.IsStaff() && (caller.Email == "" || appointment.Patient.Email != caller.Email) {
		return nil, ErrForbidden
	}
	return appointment, nil
}

func (s *AppointmentService) GetAll(ctx context.Context, caller models.Caller) ([]models.Appointment, error) {
	if !caller.IsStaff() {
		return nil, ErrForbidden
	}
	return s.appointmentRepo.GetAll(ctx)
}

// Update applies a partial update. A schedule change on a VIRTUAL appointment
// with an external meeting triggers a best-effort provider sync; a status
// change dispatches the localized status notification. Neither side effect
// can fail the local update.
func (s *AppointmentService) Update(ctx context.Context, caller models.Caller, id uint, req models.UpdateAppointmentRequest) (*models.Appointment, []string, error) {
	if !caller.IsStaff() {
		return nil, nil, ErrForbidden
	}
	if err := utils.ValidateUpdateAppointmentRequest(req); err != nil {
		return nil, nil, err
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if appointment == nil {
		return nil, nil, ErrNotFound
	}

	fields := map[string]interface{}{}
	scheduleChanged := false
	statusChanged := false
	if req.Status != nil && *req.Status != appointment.Status {
		fields["status"] = *req.Status
		statusChanged = true
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.ScheduledAt != nil && !req.ScheduledAt.Equal(appointment.ScheduledAt) {
		fields["scheduled_at"] = *req.ScheduledAt
		scheduleChanged = true
	}
	if req.Duration != nil && *req.Duration != appointment.Duration {
		fields["duration"] = *req.Duration
		scheduleChanged = true
	}

	if len(fields) > 0 {
		if err := s.appointmentRepo.Update(ctx, id, fields); err != nil {
			return nil, nil, err
		}
	}

	var warnings []string
	if scheduleChanged && appointment.Type == models.AppointmentTypeVirtual && appointment.MeetingID != "" {
		scheduledAt := appointment.ScheduledAt
		if req.ScheduledAt != nil {
			scheduledAt = *req.ScheduledAt
		}
		duration := appointment.Duration
		if req.Duration != nil {
			duration = *req.Duration
		}
		if err := s.meetings.UpdateMeeting(ctx, appointment.MeetingID, scheduledAt, duration); err != nil {
			log.Printf("Failed to sync external meeting %s: %v", appointment.MeetingID, err)
			warnings = append(warnings, "virtual meeting could not be synchronized")
		}
	}

	if statusChanged {
		s.notifyStatusChange(ctx, appointment, *req.Status)
	}

	updated, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, warnings, err
	}
	return updated, warnings, nil
}

// Delete removes an appointment, its reminders, and (best effort) its
// external meeting resource, then attempts a cancellation notification.
// Admin only.
func (s *AppointmentService) Delete(ctx context.Context, caller models.Caller, id uint) ([]string, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrNotFound
	}

	var warnings []string
	if appointment.MeetingID != "" {
		if err := s.meetings.DeleteMeeting(ctx, appointment.MeetingID); err != nil {
			log.Printf("Failed to delete external meeting %s: %v", appointment.MeetingID, err)
			warnings = append(warnings, "virtual meeting could not be deleted")
		}
	}

	// Reminders go before the appointment row inside the repository
	// transaction; the external delete above is already done and non-fatal.
	if err := s.appointmentRepo.DeleteWithReminders(ctx, id); err != nil {
		return warnings, err
	}

	s.notifyStatusChange(ctx, appointment, models.AppointmentStatusCancelled)
	return warnings, nil
}

// notifyStatusChange sends the localized status message to the patient and,
// when the appointment is tied to an assessment, appends a notification
// entry. Unknown statuses have no catalog entry and produce nothing.
func (s *AppointmentService) notifyStatusChange(ctx context.Context, appointment *models.Appointment, status string) {
	language := "en"
	if appointment.Assessment != nil && appointment.Assessment.Language != "" {
		language = appointment.Assessment.Language
	}
	msg, ok := utils.AppointmentStatusMessage(status, language)
	if !ok {
		return
	}

	recipient := appointment.Patient.Email
	sent := false
	if recipient != "" {
		if err := s.mailer.Send(recipient, msg.Subject, msg.Body); err != nil {
			log.Printf("Failed to send status notification for appointment %d: %v", appointment.ID, err)
		} else {
			sent = true
		}
	}

	if appointment.AssessmentID != nil {
		notification := &models.Notification{
			AssessmentID: *appointment.AssessmentID,
			Recipient:    recipient,
			Subject:      msg.Subject,
			Content:      msg.Body,
			Sent:         sent,
		}
		if err := s.notificationRepo.Append(ctx, notification); err != nil {
			log.Printf("Failed to append notification for appointment %d: %v", appointment.ID, err)
		}
	}
}
