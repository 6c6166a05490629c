package repositories

import (
	"CogniCare/cache"
	"CogniCare/database"
	"CogniCare/models"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	QuestionCacheExpiry = 7 * 24 * time.Hour
	questionCatalogKey  = "question_catalog_cache"
)

type QuestionRepository interface {
	GetCatalog(ctx context.Context) ([]models.QuestionGroup, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Question, error)
}

type questionRepository struct {
	cache *cache.Cache
}

func NewQuestionRepository(cache *cache.Cache) QuestionRepository {
	return &questionRepository{cache: cache}
}

// GetCatalog returns the ordered question groups with their questions. The
// catalog is seed-only, so the cached copy never needs invalidation.
func (r *questionRepository) GetCatalog(ctx context.Context) ([]models.QuestionGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cachedCatalog, err := r.cache.Get(ctx, questionCatalogKey)
	if err == nil && cachedCatalog != "" {
		var groups []models.QuestionGroup
		if err := json.Unmarshal([]byte(cachedCatalog), &groups); err == nil {
			return groups, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get question catalog from cache: %v", err)
	}

	var groups []models.QuestionGroup
	err = database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Order("sort_order").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get question catalog: %w", err)
	}

	catalogJSON, err := json.Marshal(groups)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question catalog: %w", err)
	}
	if err := r.cache.Set(ctx, questionCatalogKey, catalogJSON, QuestionCacheExpiry); err != nil {
		log.Printf("Failed to set question catalog in cache: %v", err)
	}

	return groups, nil
}

// GetByIDs returns the questions for the given ids keyed by id. Missing ids
// are simply absent from the map; the caller decides whether that is an error.
func (r *questionRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Question, error) {
	if len(ids) == 0 {
		return map[uint]models.Question{}, nil
	}

	var questions []models.Question
	if err := database.DB.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by ids: %w", err)
	}

	byID := make(map[uint]models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}
	return byID, nil
}
