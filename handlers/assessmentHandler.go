package handlers

import (
	"CogniCare/middlewares"
	"CogniCare/models"
	"CogniCare/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	assessments *services.AssessmentService
	reviews     *services.ReviewService
}

func NewAssessmentHandler(assessments *services.AssessmentService, reviews *services.ReviewService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, reviews: reviews}
}

// SaveDraft creates or updates the caller's draft for a patient.
func (h *AssessmentHandler) SaveDraft(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req models.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", "نص الطلب غير صالح", 400, err)
		return
	}
	result, err := h.assessments.SaveDraft(c.Request.Context(), caller, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{
		"assessmentId":     result.AssessmentID,
		"assessmentNumber": result.AssessmentNumber,
		"mrn":              result.MRN,
	}, 200)
}

func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := assessmentIDParam(c)
	if !ok {
		return
	}
	if err := h.assessments.Submit(c.Request.Context(), caller, id); err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Assessment submitted"}, 200)
}

func (h *AssessmentHandler) CancelAssessment(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := assessmentIDParam(c)
	if !ok {
		return
	}
	if err := h.assessments.Cancel(c.Request.Context(), caller, id); err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Assessment cancelled"}, 200)
}

func (h *AssessmentHandler) GetAssessmentByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := assessmentIDParam(c)
	if !ok {
		return
	}
	assessment, err := h.assessments.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"assessment": assessment}, 200)
}

func (h *AssessmentHandler) GetAllAssessments(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	assessments, err := h.assessments.GetAll(c.Request.Context(), caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"assessments": assessments}, 200)
}

// ReviewAssessment records the reviewer's notes and verdict.
func (h *AssessmentHandler) ReviewAssessment(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := assessmentIDParam(c)
	if !ok {
		return
	}
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", "نص الطلب غير صالح", 400, err)
		return
	}
	assessment, err := h.reviews.SubmitReview(c.Request.Context(), caller, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"assessment": assessment}, 200)
}

// GetAssessmentNotifications lists the notification log for an assessment.
func (h *AssessmentHandler) GetAssessmentNotifications(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := assessmentIDParam(c)
	if !ok {
		return
	}
	notifications, err := h.reviews.Notifications(c.Request.Context(), caller, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"notifications": notifications}, 200)
}

func assessmentIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("assessment_id"), 10, 32)
	if err != nil {
		middlewares.HttpError(c, "Invalid assessment id", "معرف التقييم غير صالح", 400, err)
		return 0, false
	}
	return uint(id), true
}
