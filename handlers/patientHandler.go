package handlers

import (
	"CogniCare/middlewares"
	"CogniCare/services"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id := c.Param("patient_id")
	patient, err := h.service.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"patient": patient}, 200)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	patients, err := h.service.GetAll(c.Request.Context(), caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"patients": patients}, 200)
}
