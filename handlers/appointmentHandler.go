package handlers

import (
	"CogniCare/middlewares"
	"CogniCare/models"
	"CogniCare/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// ScheduleAppointment creates an appointment. Provider-side failures while
// creating a virtual meeting come back as warnings, not errors.
func (h *AppointmentHandler) ScheduleAppointment(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req models.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", "نص الطلب غير صالح", 400, err)
		return
	}
	appointment, warnings, err := h.service.Schedule(c.Request.Context(), caller, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	body := gin.H{"appointment": appointment}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	middlewares.RespondJSON(c, body, 201)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	appointment, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"appointment": appointment}, 200)
}

func (h *AppointmentHandler) GetAllAppointments(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	appointments, err := h.service.GetAll(c.Request.Context(), caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"appointments": appointments}, 200)
}

func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", "نص الطلب غير صالح", 400, err)
		return
	}
	appointment, warnings, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	body := gin.H{"appointment": appointment}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	middlewares.RespondJSON(c, body, 200)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	warnings, err := h.service.Delete(c.Request.Context(), caller, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	body := gin.H{"message": "Appointment deleted"}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	middlewares.RespondJSON(c, body, 200)
}

func appointmentIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("appointment_id"), 10, 32)
	if err != nil {
		middlewares.HttpError(c, "Invalid appointment id", "معرف الموعد غير صالح", 400, err)
		return 0, false
	}
	return uint(id), true
}
