package services

import (
	"CogniCare/models"
	"CogniCare/repositories"
	"CogniCare/utils"
	"context"
	"fmt"
	"log"
	"time"
)

type ReviewService struct {
	assessmentRepo   repositories.AssessmentRepository
	patientRepo      repositories.PatientRepository
	notificationRepo repositories.NotificationRepository
	mailer           utils.EmailSender
}

func NewReviewService(
	assessmentRepo repositories.AssessmentRepository,
	patientRepo repositories.PatientRepository,
	notificationRepo repositories.NotificationRepository,
	mailer utils.EmailSender,
) *ReviewService {
	return &ReviewService{
		assessmentRepo:   assessmentRepo,
		patientRepo:      patientRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
	}
}

// SubmitReview records a reviewer's notes, score, and verdict on a submitted
// assessment, moving it to UNDER_REVIEW or COMPLETED. Re-review is allowed in
// both directions. Completing an assessment triggers a best-effort completion
// email to the patient; delivery failure never fails the review, it is only
// visible as sent=false on the appended notification entry.
func (s *ReviewService) SubmitReview(ctx context.Context, caller models.Caller, assessmentID uint, req models.ReviewRequest) (*models.Assessment, error) {
	if !caller.IsStaff() {
		return nil, ErrForbidden
	}
	if err := utils.ValidateReviewRequest(req); err != nil {
		return nil, err
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrNotFound
	}
	if assessment.Status == models.AssessmentStatusDraft || assessment.Status == models.AssessmentStatusCancelled {
		return nil, ErrInvalidState
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":          req.Status,
		"reviewed":        true,
		"review_notes":    req.ReviewNotes,
		"recommendations": req.Recommendations,
		"reviewed_by":     caller.Name,
		"reviewed_at":     &now,
	}
	if req.ClinicalScore != nil {
		fields["clinical_score"] = *req.ClinicalScore
	}
	if err := s.assessmentRepo.UpdateReview(ctx, assessmentID, fields); err != nil {
		return nil, err
	}

	if req.Status == models.AssessmentStatusCompleted {
		s.notifyCompletion(ctx, assessment)
	}

	return s.assessmentRepo.GetByID(ctx, assessmentID)
}

// Notifications lists the notification log for an assessment. Staff only.
func (s *ReviewService) Notifications(ctx context.Context, caller models.Caller, assessmentID uint) ([]models.Notification, error) {
	if !caller.IsStaff() {
		return nil, ErrForbidden
	}
	assessment, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrNotFound
	}
	return s.notificationRepo.ListByAssessment(ctx, assessmentID)
}

// notifyCompletion delivers the completion email when the patient has an
// address on file and always appends a notification entry recording the
// attempt. Nothing here propagates an error to the review itself.
func (s *ReviewService) notifyCompletion(ctx context.Context, assessment *models.Assessment) {
	patient, err := s.patientRepo.GetByID(ctx, assessment.PatientID)
	if err != nil {
		log.Printf("Failed to load patient %s for completion notification: %v", assessment.PatientID, err)
	}

	recipient := ""
	patientName := ""
	if patient != nil {
		recipient = patient.Email
		patientName = patient.FullName
	}

	subject := fmt.Sprintf("Assessment %s review completed", assessment.AssessmentNumber)
	body := utils.CompletionEmailBody(patientName, assessment.AssessmentNumber)

	sent := false
	if recipient != "" {
		if err := s.mailer.Send(recipient, subject, body); err != nil {
			log.Printf("Failed to send completion email for assessment %s: %v", assessment.AssessmentNumber, err)
		} else {
			sent = true
		}
	}

	notification := &models.Notification{
		AssessmentID: assessment.ID,
		Recipient:    recipient,
		Subject:      subject,
		Content:      body,
		Sent:         sent,
	}
	if err := s.notificationRepo.Append(ctx, notification); err != nil {
		log.Printf("Failed to append notification for assessment %s: %v", assessment.AssessmentNumber, err)
	}
}
