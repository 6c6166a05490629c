package services

import (
	"CogniCare/models"
	"CogniCare/repositories"
	"context"
)

type QuestionService struct {
	repository repositories.QuestionRepository
}

func NewQuestionService(repository repositories.QuestionRepository) *QuestionService {
	return &QuestionService{repository: repository}
}

func (s *QuestionService) GetCatalog(ctx context.Context) ([]models.QuestionGroup, error) {
	return s.repository.GetCatalog(ctx)
}
