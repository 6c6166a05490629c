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
	AppointmentCacheExpiry = 24 * time.Hour
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment, reminders []models.AppointmentReminder) error
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	GetAll(ctx context.Context) ([]models.Appointment, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteWithReminders(ctx context.Context, id uint) error
}

type appointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) AppointmentRepository {
	return &appointmentRepository{cache: cache}
}

// Create inserts the appointment together with its reminder rows in one
// transaction.
func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment, reminders []models.AppointmentReminder) error {
	lockKey := fmt.Sprintf("appointment_lock:%s_%d", appointment.PatientID, appointment.ScheduledAt.Unix())
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
		if err := tx.Create(appointment).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		for i := range reminders {
			reminders[i].AppointmentID = appointment.ID
		}
		if len(reminders) > 0 {
			if err := tx.Create(&reminders).Error; err != nil {
				return fmt.Errorf("failed to create appointment reminders: %w", err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return r.invalidate(ctx, appointment.ID)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getAppointmentCacheKey(id)
	cachedAppointment, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedAppointment != "" {
		var appointment models.Appointment
		if err := json.Unmarshal([]byte(cachedAppointment), &appointment); err == nil {
			return &appointment, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var appointment models.Appointment
	err = database.DB.
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, date_of_birth, gender, email, phone")
		}).
		Preload("Assessment", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, assessment_number, patient_id, submitted_by, form_type, language, status, reviewed, clinical_score")
		}).
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	appointmentJSON, err := json.Marshal(appointment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appointment: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, appointmentJSON, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointment in cache: %v", err)
	}

	return &appointment, nil
}

func (r *appointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email, phone")
		}).
		Order("scheduled_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all appointments: %w", err)
	}
	return appointments, nil
}

// Update applies a partial field update.
func (r *appointmentRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	lockKey := fmt.Sprintf("appointment_lock:%d", id)
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

	if err := database.DB.Model(&models.Appointment{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	return r.invalidate(ctx, id)
}

// DeleteWithReminders removes the appointment and its reminders in one
// transaction, reminders first so no reminder row is ever left dangling.
func (r *appointmentRepository) DeleteWithReminders(ctx context.Context, id uint) error {
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("appointment_id = ?", id).Delete(&models.AppointmentReminder{}).Error; err != nil {
			return fmt.Errorf("failed to delete appointment reminders: %w", err)
		}
		if err := tx.Delete(&models.Appointment{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	return r.invalidate(ctx, id)
}

func (r *appointmentRepository) invalidate(ctx context.Context, id uint) error {
	if err := r.cache.Delete(ctx, r.getAppointmentCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete appointment cache: %w", err)
	}
	return nil
}

func (r *appointmentRepository) getAppointmentCacheKey(id uint) string {
	return fmt.Sprintf("appointment_cache:%d", id)
}
