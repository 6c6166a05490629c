package services

import (
	"CogniCare/models"
	"CogniCare/repositories"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared in-memory fakes for the service tests.

type fakeAssessmentRepo struct {
	assessments       map[uint]*models.Assessment
	lastReviewFields  map[string]interface{}
	lastReplaceFields map[string]interface{}
}

func newFakeAssessmentRepo(assessments ...*models.Assessment) *fakeAssessmentRepo {
	repo := &fakeAssessmentRepo{assessments: map[uint]*models.Assessment{}}
	for _, a := range assessments {
		repo.assessments[a.ID] = a
	}
	return repo
}

func (f *fakeAssessmentRepo) FindDraft(ctx context.Context, patientID string, submittedBy int64) (*models.Assessment, error) {
	for _, a := range f.assessments {
		if a.PatientID == patientID && a.SubmittedBy == submittedBy && a.Status == models.AssessmentStatusDraft {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAssessmentRepo) CreateDraft(ctx context.Context, assessment *models.Assessment, responses []models.AssessmentResponse) error {
	assessment.ID = uint(len(f.assessments) + 1)
	assessment.AssessmentNumber = fmt.Sprintf("ASM-2026-%05d", assessment.ID)
	assessment.Status = models.AssessmentStatusDraft
	assessment.Responses = responses
	f.assessments[assessment.ID] = assessment
	return nil
}

func (f *fakeAssessmentRepo) ReplaceDraft(ctx context.Context, assessmentID uint, fields map[string]interface{}, responses []models.AssessmentResponse) error {
	a, ok := f.assessments[assessmentID]
	if !ok {
		return errors.New("draft not found")
	}
	f.lastReplaceFields = fields
	if v, ok := fields["form_type"].(string); ok {
		a.FormType = v
	}
	if v, ok := fields["language"].(string); ok {
		a.Language = v
	}
	if v, ok := fields["proxy_name"].(string); ok {
		a.ProxyName = v
	}
	if v, ok := fields["proxy_relation"].(string); ok {
		a.ProxyRelation = v
	}
	if v, ok := fields["proxy_phone"].(string); ok {
		a.ProxyPhone = v
	}
	a.Responses = responses
	return nil
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (f *fakeAssessmentRepo) GetAll(ctx context.Context) ([]models.Assessment, error) {
	var all []models.Assessment
	for _, a := range f.assessments {
		all = append(all, *a)
	}
	return all, nil
}

func (f *fakeAssessmentRepo) ListBySubmitter(ctx context.Context, submittedBy int64) ([]models.Assessment, error) {
	var result []models.Assessment
	for _, a := range f.assessments {
		if a.SubmittedBy == submittedBy {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (f *fakeAssessmentRepo) TransitionStatus(ctx context.Context, id uint, from, to string, extra map[string]interface{}) error {
	a, ok := f.assessments[id]
	if !ok || a.Status != from {
		return repositories.ErrStaleStatus
	}
	a.Status = to
	return nil
}

func (f *fakeAssessmentRepo) UpdateReview(ctx context.Context, id uint, fields map[string]interface{}) error {
	a, ok := f.assessments[id]
	if !ok {
		return errors.New("assessment not found")
	}
	f.lastReviewFields = fields
	if status, ok := fields["status"].(string); ok {
		a.Status = status
	}
	a.Reviewed = true
	return nil
}

type fakePatientRepo struct {
	patients map[string]*models.Patient
	linked   map[string]int64
}

func newFakePatientRepo(patients ...*models.Patient) *fakePatientRepo {
	repo := &fakePatientRepo{patients: map[string]*models.Patient{}, linked: map[string]int64{}}
	for _, p := range patients {
		repo.patients[p.ID] = p
	}
	return repo
}

func (f *fakePatientRepo) Create(ctx context.Context, patient *models.Patient) error {
	patient.ID = "MRN-2026-00001"
	f.patients[patient.ID] = patient
	return nil
}

func (f *fakePatientRepo) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	return f.patients[id], nil
}

func (f *fakePatientRepo) GetAll(ctx context.Context) ([]models.Patient, error) {
	var all []models.Patient
	for _, p := range f.patients {
		all = append(all, *p)
	}
	return all, nil
}

func (f *fakePatientRepo) FindByEmail(ctx context.Context, email string) (*models.Patient, error) {
	if email == "" {
		return nil, nil
	}
	for _, p := range f.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) FindByPhone(ctx context.Context, phone string) (*models.Patient, error) {
	if phone == "" {
		return nil, nil
	}
	for _, p := range f.patients {
		if p.Phone == phone {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) Update(ctx context.Context, patient *models.Patient) error {
	f.patients[patient.ID] = patient
	return nil
}

func (f *fakePatientRepo) LinkUser(ctx context.Context, patientID string, userID int64) error {
	f.linked[patientID] = userID
	return nil
}

type fakeNotificationRepo struct {
	appended []*models.Notification
}

func (f *fakeNotificationRepo) Append(ctx context.Context, notification *models.Notification) error {
	f.appended = append(f.appended, notification)
	return nil
}

func (f *fakeNotificationRepo) ListByAssessment(ctx context.Context, assessmentID uint) ([]models.Notification, error) {
	var result []models.Notification
	for _, n := range f.appended {
		if n.AssessmentID == assessmentID {
			result = append(result, *n)
		}
	}
	return result, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	fail bool
	sent []sentMail
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.fail {
		return errors.New("smtp connection refused")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

var (
	staffCaller = models.Caller{ID: 10, Role: models.RoleClinicalStaff, Name: "Dr. Huda", Email: "huda@clinic.example"}
	adminCaller = models.Caller{ID: 1, Role: models.RoleAdmin, Name: "Admin", Email: "admin@clinic.example"}
	userCaller  = models.Caller{ID: 42, Role: models.RoleUser, Name: "Sami", Email: "sami@example.com"}
)

func newReviewFixture(assessment *models.Assessment, patient *models.Patient, mailerFails bool) (*ReviewService, *fakeAssessmentRepo, *fakeNotificationRepo, *fakeMailer) {
	assessmentRepo := newFakeAssessmentRepo(assessment)
	patientRepo := newFakePatientRepo(patient)
	notificationRepo := &fakeNotificationRepo{}
	mailer := &fakeMailer{fail: mailerFails}
	service := NewReviewService(assessmentRepo, patientRepo, notificationRepo, mailer)
	return service, assessmentRepo, notificationRepo, mailer
}

func submittedAssessment() *models.Assessment {
	return &models.Assessment{
		ID:               5,
		AssessmentNumber: "ASM-2026-00005",
		PatientID:        "MRN-2026-00003",
		SubmittedBy:      42,
		Status:           models.AssessmentStatusSubmitted,
	}
}

func TestSubmitReviewForbiddenForNonStaff(t *testing.T) {
	service, _, _, _ := newReviewFixture(submittedAssessment(), &models.Patient{ID: "MRN-2026-00003"}, false)

	_, err := service.SubmitReview(context.Background(), userCaller, 5, models.ReviewRequest{
		ReviewNotes: "notes", Status: models.AssessmentStatusCompleted,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitReviewRejectsDraft(t *testing.T) {
	assessment := submittedAssessment()
	assessment.Status = models.AssessmentStatusDraft
	service, _, _, _ := newReviewFixture(assessment, &models.Patient{ID: "MRN-2026-00003"}, false)

	_, err := service.SubmitReview(context.Background(), staffCaller, 5, models.ReviewRequest{
		ReviewNotes: "notes", Status: models.AssessmentStatusCompleted,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitReviewCompletionSendsEmail(t *testing.T) {
	patient := &models.Patient{ID: "MRN-2026-00003", FullName: "Sami Haddad", Email: "sami@example.com"}
	service, assessmentRepo, notificationRepo, mailer := newReviewFixture(submittedAssessment(), patient, false)

	score := 72.5
	reviewed, err := service.SubmitReview(context.Background(), staffCaller, 5, models.ReviewRequest{
		ReviewNotes:     "Mild impairment indicators",
		ClinicalScore:   &score,
		Recommendations: "Follow up in 3 months",
		Status:          models.AssessmentStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentStatusCompleted, reviewed.Status)
	assert.Equal(t, "Dr. Huda", assessmentRepo.lastReviewFields["reviewed_by"])
	assert.Equal(t, 72.5, assessmentRepo.lastReviewFields["clinical_score"])

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "sami@example.com", mailer.sent[0].to)

	require.Len(t, notificationRepo.appended, 1)
	assert.True(t, notificationRepo.appended[0].Sent)
	assert.Equal(t, uint(5), notificationRepo.appended[0].AssessmentID)
}

func TestSubmitReviewMailerFailureStillCompletes(t *testing.T) {
	patient := &models.Patient{ID: "MRN-2026-00003", FullName: "Sami Haddad", Email: "sami@example.com"}
	service, _, notificationRepo, _ := newReviewFixture(submittedAssessment(), patient, true)

	reviewed, err := service.SubmitReview(context.Background(), staffCaller, 5, models.ReviewRequest{
		ReviewNotes: "notes", Status: models.AssessmentStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentStatusCompleted, reviewed.Status)

	// The attempt is still recorded, with delivery marked failed.
	require.Len(t, notificationRepo.appended, 1)
	assert.False(t, notificationRepo.appended[0].Sent)
}

func TestSubmitReviewNoEmailOnFile(t *testing.T) {
	patient := &models.Patient{ID: "MRN-2026-00003", FullName: "Sami Haddad"}
	service, _, notificationRepo, mailer := newReviewFixture(submittedAssessment(), patient, false)

	_, err := service.SubmitReview(context.Background(), staffCaller, 5, models.ReviewRequest{
		ReviewNotes: "notes", Status: models.AssessmentStatusCompleted,
	})
	require.NoError(t, err)

	assert.Empty(t, mailer.sent)
	require.Len(t, notificationRepo.appended, 1)
	assert.False(t, notificationRepo.appended[0].Sent)
	assert.Empty(t, notificationRepo.appended[0].Recipient)
}

func TestSubmitReviewUnderReviewSkipsNotification(t *testing.T) {
	patient := &models.Patient{ID: "MRN-2026-00003", Email: "sami@example.com"}
	service, _, notificationRepo, mailer := newReviewFixture(submittedAssessment(), patient, false)

	reviewed, err := service.SubmitReview(context.Background(), staffCaller, 5, models.ReviewRequest{
		ReviewNotes: "needs a second opinion", Status: models.AssessmentStatusUnderReview,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentStatusUnderReview, reviewed.Status)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, notificationRepo.appended)
}

func TestSubmitReviewValidatesStatus(t *testing.T) {
	service, _, _, _ := newReviewFixture(submittedAssessment(), &models.Patient{ID: "MRN-2026-00003"}, false)

	_, err := service.SubmitReview(context.Background(), staffCaller, 5, models.ReviewRequest{
		ReviewNotes: "notes", Status: models.AssessmentStatusDraft,
	})
	require.Error(t, err)
}

func TestNotificationsStaffOnly(t *testing.T) {
	patient := &models.Patient{ID: "MRN-2026-00003", Email: "sami@example.com"}
	service, _, _, _ := newReviewFixture(submittedAssessment(), patient, false)

	_, err := service.SubmitReview(context.Background(), staffCaller, 5, models.ReviewRequest{
		ReviewNotes: "notes", Status: models.AssessmentStatusCompleted,
	})
	require.NoError(t, err)

	_, err = service.Notifications(context.Background(), userCaller, 5)
	assert.ErrorIs(t, err, ErrForbidden)

	notifications, err := service.Notifications(context.Background(), staffCaller, 5)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].Sent)

	_, err = service.Notifications(context.Background(), staffCaller, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitReviewNotFound(t *testing.T) {
	service, _, _, _ := newReviewFixture(submittedAssessment(), &models.Patient{ID: "MRN-2026-00003"}, false)

	_, err := service.SubmitReview(context.Background(), staffCaller, 999, models.ReviewRequest{
		ReviewNotes: "notes", Status: models.AssessmentStatusCompleted,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
