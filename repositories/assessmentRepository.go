package repositories

import (
	"CogniCare/cache"
	"CogniCare/database"
	"CogniCare/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	AssessmentCacheExpiry = 24 * time.Hour
)

// ErrStaleStatus is returned when a guarded status transition matched no row,
// meaning the assessment was not in the expected source state.
var ErrStaleStatus = errors.New("assessment not in expected status")

type AssessmentRepository interface {
	FindDraft(ctx context.Context, patientID string, submittedBy int64) (*models.Assessment, error)
	CreateDraft(ctx context.Context, assessment *models.Assessment, responses []models.AssessmentResponse) error
	ReplaceDraft(ctx context.Context, assessmentID uint, fields map[string]interface{}, responses []models.AssessmentResponse) error
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	GetAll(ctx context.Context) ([]models.Assessment, error)
	ListBySubmitter(ctx context.Context, submittedBy int64) ([]models.Assessment, error)
	TransitionStatus(ctx context.Context, id uint, from, to string, extra map[string]interface{}) error
	UpdateReview(ctx context.Context, id uint, fields map[string]interface{}) error
}

type assessmentRepository struct {
	cache *cache.Cache
}

func NewAssessmentRepository(cache *cache.Cache) AssessmentRepository {
	return &assessmentRepository{cache: cache}
}

// FindDraft returns the single DRAFT assessment for a (patient, submitter)
// pair, or nil when none exists.
func (r *assessmentRepository) FindDraft(ctx context.Context, patientID string, submittedBy int64) (*models.Assessment, error) {
	var assessment models.Assessment
	err := database.DB.
		Where("patient_id = ? AND submitted_by = ? AND status = ?", patientID, submittedBy, models.AssessmentStatusDraft).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find draft assessment: %w", err)
	}
	return &assessment, nil
}

// CreateDraft reserves an assessment number and inserts the assessment with
// its initial response set in one transaction. A failure anywhere rolls the
// whole draft back, number reservation included.
func (r *assessmentRepository) CreateDraft(ctx context.Context, assessment *models.Assessment, responses []models.AssessmentResponse) error {
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		number, err := NextSequenceNumber(tx, SequenceScopeAssessment)
		if err != nil {
			return err
		}
		assessment.AssessmentNumber = number
		assessment.Status = models.AssessmentStatusDraft

		if err := tx.Create(assessment).Error; err != nil {
			return fmt.Errorf("failed to create assessment: %w", err)
		}
		for i := range responses {
			responses[i].AssessmentID = assessment.ID
		}
		if len(responses) > 0 {
			if err := tx.Create(&responses).Error; err != nil {
				return fmt.Errorf("failed to create assessment responses: %w", err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return r.invalidate(ctx, assessment.ID)
}

// ReplaceDraft updates a draft's scalar fields and swaps its entire response
// set in one transaction: old rows are deleted, new rows inserted. A reader
// never observes the draft with a stale or partial response set.
func (r *assessmentRepository) ReplaceDraft(ctx context.Context, assessmentID uint, fields map[string]interface{}, responses []models.AssessmentResponse) error {
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", assessmentID).Delete(&models.AssessmentResponse{}).Error; err != nil {
			return fmt.Errorf("failed to delete old responses: %w", err)
		}
		if err := tx.Model(&models.Assessment{}).Where("id = ?", assessmentID).Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to update draft assessment: %w", err)
		}
		for i := range responses {
			responses[i].AssessmentID = assessmentID
		}
		if len(responses) > 0 {
			if err := tx.Create(&responses).Error; err != nil {
				return fmt.Errorf("failed to create assessment responses: %w", err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return r.invalidate(ctx, assessmentID)
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getAssessmentCacheKey(id)
	cachedAssessment, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedAssessment != "" {
		var assessment models.Assessment
		if err := json.Unmarshal([]byte(cachedAssessment), &assessment); err == nil {
			return &assessment, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get assessment from cache: %v", err)
	}

	var assessment models.Assessment
	err = database.DB.
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, assessment_id, question_id, question_text, answer_value, answer_type").Order("question_id")
		}).
		First(&assessment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	assessmentJSON, err := json.Marshal(assessment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assessment: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, assessmentJSON, AssessmentCacheExpiry); err != nil {
		log.Printf("Failed to set assessment in cache: %v", err)
	}

	return &assessment, nil
}

func (r *assessmentRepository) GetAll(ctx context.Context) ([]models.Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var assessments []models.Assessment
	err := database.DB.
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all assessments: %w", err)
	}
	return assessments, nil
}

// ListBySubmitter returns the assessments a user has created, newest first.
func (r *assessmentRepository) ListBySubmitter(ctx context.Context, submittedBy int64) ([]models.Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var assessments []models.Assessment
	err := database.DB.
		Where("submitted_by = ?", submittedBy).
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments by submitter: %w", err)
	}
	return assessments, nil
}

// TransitionStatus moves an assessment from one status to another, guarded by
// the source status so concurrent transitions cannot race past each other.
// Returns ErrStaleStatus when the assessment is not in the expected state.
func (r *assessmentRepository) TransitionStatus(ctx context.Context, id uint, from, to string, extra map[string]interface{}) error {
	fields := map[string]interface{}{"status": to}
	for k, v := range extra {
		fields[k] = v
	}
	result := database.DB.Model(&models.Assessment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to transition assessment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return r.invalidate(ctx, id)
}

func (r *assessmentRepository) UpdateReview(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := database.DB.Model(&models.Assessment{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update assessment review: %w", err)
	}
	return r.invalidate(ctx, id)
}

func (r *assessmentRepository) invalidate(ctx context.Context, id uint) error {
	if err := r.cache.Delete(ctx, r.getAssessmentCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete assessment cache: %w", err)
	}
	return nil
}

func (r *assessmentRepository) getAssessmentCacheKey(id uint) string {
	return fmt.Sprintf("assessment_cache:%d", id)
}
