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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PatientCacheExpiry = 7 * 24 * time.Hour
)

type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	GetAll(ctx context.Context) ([]models.Patient, error)
	FindByEmail(ctx context.Context, email string) (*models.Patient, error)
	FindByPhone(ctx context.Context, phone string) (*models.Patient, error)
	Update(ctx context.Context, patient *models.Patient) error
	LinkUser(ctx context.Context, patientID string, userID int64) error
}

type patientRepository struct {
	cache *cache.Cache
}

func NewPatientRepository(cache *cache.Cache) PatientRepository {
	return &patientRepository{cache: cache}
}

// Create assigns a fresh MRN and inserts the patient. The sequence
// reservation and the insert share one transaction, so the MRN uniqueness
// constraint plus rollback keep concurrent creations from colliding.
func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s_%s", patient.FullName, patient.DateOfBirth)
	lockValue := uuid.New().String()

	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		mrn, err := NextSequenceNumber(tx, SequenceScopePatient)
		if err != nil {
			return err
		}
		patient.ID = mrn

		if err := tx.Create(patient).Error; err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, r.getPatientCacheKey(patient.ID)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "patients_cache")
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getPatientCacheKey(id)
	cachedPatient, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedPatient != "" {
		var patient models.Patient
		if err := json.Unmarshal([]byte(cachedPatient), &patient); err == nil {
			return &patient, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	err = database.DB.Select("id, full_name, date_of_birth, gender, email, phone, address, user_id, created_at").
		Preload("Assessments", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, assessment_number, patient_id, submitted_by, form_type, language, status, reviewed, created_at")
		}).
		First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	patientJSON, err := json.Marshal(patient)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patient: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, patientJSON, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patient in cache: %v", err)
	}

	return &patient, nil
}

func (r *patientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patients []models.Patient
	err := database.DB.Select("id, full_name, date_of_birth, gender, email, phone, address, user_id, created_at").
		Order("created_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}
	return patients, nil
}

// FindByEmail returns the patient with the given contact email, or nil when
// none exists. Blank emails never match.
func (r *patientRepository) FindByEmail(ctx context.Context, email string) (*models.Patient, error) {
	if email == "" {
		return nil, nil
	}
	var patient models.Patient
	err := database.DB.Where("email = ?", email).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find patient by email: %w", err)
	}
	return &patient, nil
}

// FindByPhone returns the patient with the given phone number, or nil when
// none exists. Blank phones never match.
func (r *patientRepository) FindByPhone(ctx context.Context, phone string) (*models.Patient, error) {
	if phone == "" {
		return nil, nil
	}
	var patient models.Patient
	err := database.DB.Where("phone = ?", phone).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find patient by phone: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s", patient.ID)
	lockValue := uuid.New().String()
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	if err := database.DB.Save(patient).Error; err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	if err := r.cache.Delete(ctx, r.getPatientCacheKey(patient.ID)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "patients_cache")
}

// LinkUser attaches a user identity to a patient record. Used once, the
// first time a patient submits a SELF assessment while logged in.
func (r *patientRepository) LinkUser(ctx context.Context, patientID string, userID int64) error {
	if err := database.DB.Model(&models.Patient{}).
		Where("id = ?", patientID).
		Update("user_id", userID).Error; err != nil {
		return fmt.Errorf("failed to link user to patient: %w", err)
	}
	return r.cache.Delete(ctx, r.getPatientCacheKey(patientID))
}

func (r *patientRepository) getPatientCacheKey(id string) string {
	return fmt.Sprintf("patient_cache:%s", id)
}
