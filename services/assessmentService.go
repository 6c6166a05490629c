package services

import (
	"CogniCare/models"
	"CogniCare/repositories"
	"CogniCare/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type AssessmentService struct {
	assessmentRepo repositories.AssessmentRepository
	questionRepo   repositories.QuestionRepository
	patientService *PatientService
	locker         DraftLocker
}

func NewAssessmentService(
	assessmentRepo repositories.AssessmentRepository,
	questionRepo repositories.QuestionRepository,
	patientService *PatientService,
	locker DraftLocker,
) *AssessmentService {
	return &AssessmentService{
		assessmentRepo: assessmentRepo,
		questionRepo:   questionRepo,
		patientService: patientService,
		locker:         locker,
	}
}

// SaveDraft creates or updates the caller's in-progress assessment for a
// patient. A (patient, submitter) pair holds at most one draft: repeated
// saves update it in place, replacing the response set entirely within one
// transaction. Returns the assessment id, its number, and the patient's MRN.
func (s *AssessmentService) SaveDraft(ctx context.Context, caller models.Caller, req models.SaveDraftRequest) (*models.SaveDraftResult, error) {
	if err := utils.ValidateSaveDraftRequest(req); err != nil {
		return nil, err
	}

	patient, err := s.resolvePatient(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	responses, err := s.buildResponses(ctx, req.Responses)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("draft_lock:%s_%d", patient.ID, caller.ID)
	lockValue := uuid.New().String()
	locked, err := s.locker.Acquire(ctx, lockKey, lockValue)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire draft lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another draft save is in progress")
	}
	defer func() {
		if err := s.locker.Release(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	draft, err := s.assessmentRepo.FindDraft(ctx, patient.ID, caller.ID)
	if err != nil {
		return nil, err
	}

	if draft != nil {
		fields := map[string]interface{}{
			"form_type": req.FormType,
			"language":  req.Language,
		}
		// Proxy metadata only survives on PROXY forms.
		if req.FormType == models.FormTypeProxy && req.ProxyInfo != nil {
			fields["proxy_name"] = req.ProxyInfo.Name
			fields["proxy_relation"] = req.ProxyInfo.Relation
			fields["proxy_phone"] = req.ProxyInfo.Phone
		} else {
			fields["proxy_name"] = ""
			fields["proxy_relation"] = ""
			fields["proxy_phone"] = ""
		}
		if err := s.assessmentRepo.ReplaceDraft(ctx, draft.ID, fields, responses); err != nil {
			return nil, err
		}
		return &models.SaveDraftResult{
			AssessmentID:     draft.ID,
			AssessmentNumber: draft.AssessmentNumber,
			MRN:              patient.ID,
		}, nil
	}

	assessment := &models.Assessment{
		PatientID:   patient.ID,
		SubmittedBy: caller.ID,
		FormType:    req.FormType,
		Language:    req.Language,
	}
	if req.FormType == models.FormTypeProxy && req.ProxyInfo != nil {
		assessment.ProxyName = req.ProxyInfo.Name
		assessment.ProxyRelation = req.ProxyInfo.Relation
		assessment.ProxyPhone = req.ProxyInfo.Phone
	}
	if err := s.assessmentRepo.CreateDraft(ctx, assessment, responses); err != nil {
		return nil, err
	}

	return &models.SaveDraftResult{
		AssessmentID:     assessment.ID,
		AssessmentNumber: assessment.AssessmentNumber,
		MRN:              patient.ID,
	}, nil
}

// Submit moves a draft to SUBMITTED. Only the submitter or clinical staff
// may do this; a non-draft assessment yields ErrInvalidState.
func (s *AssessmentService) Submit(ctx context.Context, caller models.Caller, assessmentID uint) error {
	assessment, err := s.getExisting(ctx, assessmentID)
	if err != nil {
		return err
	}
	if assessment.SubmittedBy != caller.ID && !caller.IsStaff() {
		return ErrForbidden
	}

	now := time.Now()
	err = s.assessmentRepo.TransitionStatus(ctx, assessmentID,
		models.AssessmentStatusDraft, models.AssessmentStatusSubmitted,
		map[string]interface{}{"submitted_at": &now})
	if err == repositories.ErrStaleStatus {
		return ErrInvalidState
	}
	return err
}

// Cancel marks an assessment CANCELLED. Staff only; completed assessments
// cannot be cancelled.
func (s *AssessmentService) Cancel(ctx context.Context, caller models.Caller, assessmentID uint) error {
	if !caller.IsStaff() {
		return ErrForbidden
	}
	assessment, err := s.getExisting(ctx, assessmentID)
	if err != nil {
		return err
	}
	if assessment.Status == models.AssessmentStatusCompleted || assessment.Status == models.AssessmentStatusCancelled {
		return ErrInvalidState
	}
	err = s.assessmentRepo.TransitionStatus(ctx, assessmentID,
		assessment.Status, models.AssessmentStatusCancelled, nil)
	if err == repositories.ErrStaleStatus {
		return ErrInvalidState
	}
	return err
}

// GetByID returns an assessment with its responses. Non-staff callers may
// only read their own submissions.
func (s *AssessmentService) GetByID(ctx context.Context, caller models.Caller, assessmentID uint) (*models.Assessment, error) {
	assessment, err := s.getExisting(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff() && assessment.SubmittedBy != caller.ID {
		return nil, ErrForbidden
	}
	return assessment, nil
}

// GetAll returns every assessment for staff, and the caller's own
// submissions for everyone else.
func (s *AssessmentService) GetAll(ctx context.Context, caller models.Caller) ([]models.Assessment, error) {
	if !caller.IsStaff() {
		return s.assessmentRepo.ListBySubmitter(ctx, caller.ID)
	}
	return s.assessmentRepo.GetAll(ctx)
}

func (s *AssessmentService) getExisting(ctx context.Context, assessmentID uint) (*models.Assessment, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrNotFound
	}
	return assessment, nil
}

func (s *AssessmentService) resolvePatient(ctx context.Context, caller models.Caller, req models.SaveDraftRequest) (*models.Patient, error) {
	if req.PatientID != "" {
		patient, err := s.patientService.repository.GetByID(ctx, req.PatientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, ErrNotFound
		}
		return patient, nil
	}
	return s.patientService.Resolve(ctx, *req.Patient, req.FormType, caller)
}

// buildResponses turns the raw answer map into response rows. Empty answers
// are dropped; unknown question ids fail validation; question text is
// snapshotted so the row survives later catalog edits.
func (s *AssessmentService) buildResponses(ctx context.Context, raw map[string]interface{}) ([]models.AssessmentResponse, error) {
	ids := make([]uint, 0, len(raw))
	values := make(map[uint]interface{}, len(raw))
	for key, value := range raw {
		if isEmptyAnswer(value) {
			continue
		}
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, validation.Errors{
				"responses." + key: validation.NewError("validation_invalid", "question id must be numeric"),
			}.Filter()
		}
		ids = append(ids, uint(id))
		values[uint(id)] = value
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	questions, err := s.questionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]models.AssessmentResponse, 0, len(ids))
	for _, id := range ids {
		question, ok := questions[id]
		if !ok {
			return nil, validation.Errors{
				fmt.Sprintf("responses.%d", id): validation.NewError("validation_unknown_question", "unknown question id"),
			}.Filter()
		}
		value := values[id]
		serialized, err := SerializeAnswer(value)
		if err != nil {
			return nil, err
		}
		responses = append(responses, models.AssessmentResponse{
			QuestionID:   id,
			QuestionText: question.Text,
			AnswerValue:  serialized,
			AnswerType:   InferAnswerType(value, question.Type),
		})
	}
	return responses, nil
}

// InferAnswerType classifies a raw answer value. Value shape wins over the
// question's declared type: an array is MULTIPLE_CHOICE, a boolean BOOLEAN,
// a number NUMBER. Strings fall back to the declared DATE or SCALE type, and
// TEXT otherwise.
func InferAnswerType(value interface{}, declaredType string) string {
	switch value.(type) {
	case []interface{}:
		return models.AnswerTypeMultipleChoice
	case bool:
		return models.AnswerTypeBoolean
	case float64, float32, int, int64:
		return models.AnswerTypeNumber
	}
	switch declaredType {
	case models.AnswerTypeDate:
		return models.AnswerTypeDate
	case models.AnswerTypeScale:
		return models.AnswerTypeScale
	}
	return models.AnswerTypeText
}

// SerializeAnswer renders an answer value for storage: strings as-is,
// everything else as canonical JSON.
func SerializeAnswer(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to serialize answer value: %w", err)
	}
	return string(raw), nil
}

func isEmptyAnswer(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok && s == "" {
		return true
	}
	return false
}
