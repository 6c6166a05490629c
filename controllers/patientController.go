package controllers

import (
	"CogniCare/handlers"
	"CogniCare/middlewares"
	"CogniCare/models"

	"github.com/gin-gonic/gin"
)

// SetupClinicRoutes registers the patient, assessment, question, and
// appointment routes. Everything requires a valid token; routes reserved for
// clinical staff carry the role middleware on top, and the services enforce
// finer-grained ownership rules themselves.
func SetupClinicRoutes(
	router *gin.Engine,
	patientHandler *handlers.PatientHandler,
	assessmentHandler *handlers.AssessmentHandler,
	appointmentHandler *handlers.AppointmentHandler,
	questionHandler *handlers.QuestionHandler,
) {
	authed := router.Group("/").Use(middlewares.TokenAuthMiddleware())
	{
		authed.GET("/questions", questionHandler.GetQuestionCatalog)

		authed.POST("/assessments/draft", assessmentHandler.SaveDraft)
		authed.POST("/assessments/:assessment_id/submit", assessmentHandler.SubmitAssessment)
		authed.GET("/assessments", assessmentHandler.GetAllAssessments)
		authed.GET("/assessments/:assessment_id", assessmentHandler.GetAssessmentByID)

		authed.GET("/appointments/:appointment_id", appointmentHandler.GetAppointmentByID)
	}

	staff := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RoleAdmin, models.RoleClinicalStaff),
	)
	{
		staff.GET("/patients", patientHandler.GetAllPatients)
		staff.GET("/patients/:patient_id", patientHandler.GetPatientByID)

		staff.POST("/assessments/:assessment_id/review", assessmentHandler.ReviewAssessment)
		staff.POST("/assessments/:assessment_id/cancel", assessmentHandler.CancelAssessment)
		staff.GET("/assessments/:assessment_id/notifications", assessmentHandler.GetAssessmentNotifications)

		staff.POST("/appointments", appointmentHandler.ScheduleAppointment)
		staff.GET("/appointments", appointmentHandler.GetAllAppointments)
		staff.PUT("/appointments/:appointment_id", appointmentHandler.UpdateAppointment)
		staff.DELETE("/appointments/:appointment_id", appointmentHandler.DeleteAppointment)
	}
}
