package handlers

import (
	"CogniCare/middlewares"
	"CogniCare/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	service *services.QuestionService
}

func NewQuestionHandler(service *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// GetQuestionCatalog returns the question groups with their questions, in
// display order. The catalog is public to any authenticated caller.
func (h *QuestionHandler) GetQuestionCatalog(c *gin.Context) {
	groups, err := h.service.GetCatalog(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"groups": groups}, 200)
}
