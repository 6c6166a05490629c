package utils

import (
	"CogniCare/models"
	"log"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ValidateSaveDraftRequest validates a draft-save request. Returns a
// validation.Errors map so handlers can surface field-level details.
func ValidateSaveDraftRequest(req models.SaveDraftRequest) error {
	errs := validation.Errors{
		"formType": validation.Validate(req.FormType,
			validation.Required, validation.In(models.FormTypeSelf, models.FormTypeProxy)),
		"language": validation.Validate(req.Language,
			validation.Required, validation.In("en", "ar")),
		"responses": validation.Validate(req.Responses, validation.Required),
	}

	if req.PatientID == "" && req.Patient == nil {
		errs["patient"] = validation.NewError("validation_required", "either patientId or patient must be provided")
	}
	if req.Patient != nil {
		errs["patient.fullName"] = validation.Validate(req.Patient.FullName, validation.Required, validation.Length(2, 200))
		errs["patient.dateOfBirth"] = validation.Validate(req.Patient.DateOfBirth, validation.Required, validation.Date("2006-01-02"))
		errs["patient.gender"] = validation.Validate(req.Patient.Gender, validation.Required, validation.In("M", "F", "Other"))
		errs["patient.email"] = validation.Validate(req.Patient.Email, is.Email)
	}
	if req.FormType == models.FormTypeProxy {
		if req.ProxyInfo == nil {
			errs["proxyInfo"] = validation.NewError("validation_required", "proxyInfo is required for PROXY form type")
		} else {
			errs["proxyInfo.name"] = validation.Validate(req.ProxyInfo.Name, validation.Required)
			errs["proxyInfo.relation"] = validation.Validate(req.ProxyInfo.Relation, validation.Required)
		}
	}

	if err := errs.Filter(); err != nil {
		log.Printf("Validation error: %v\n", err)
		return err
	}
	return nil
}

// ValidateReviewRequest validates a review submission.
func ValidateReviewRequest(req models.ReviewRequest) error {
	err := validation.Errors{
		"reviewNotes": validation.Validate(req.ReviewNotes, validation.Required),
		"status": validation.Validate(req.Status,
			validation.Required, validation.In(models.AssessmentStatusUnderReview, models.AssessmentStatusCompleted)),
		"clinicalScore": validation.Validate(req.ClinicalScore,
			validation.When(req.ClinicalScore != nil, validation.Min(0.0), validation.Max(100.0))),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateScheduleAppointmentRequest validates a new appointment request.
func ValidateScheduleAppointmentRequest(req models.ScheduleAppointmentRequest) error {
	err := validation.Errors{
		"patientId":   validation.Validate(req.PatientID, validation.Required),
		"scheduledAt": validation.Validate(req.ScheduledAt, validation.Required),
		"type": validation.Validate(req.Type,
			validation.Required,
			validation.In(models.AppointmentTypeInPerson, models.AppointmentTypeVirtual, models.AppointmentTypeHomeVisit)),
		"duration": validation.Validate(req.Duration,
			validation.Required,
			validation.Min(models.AppointmentMinDuration), validation.Max(models.AppointmentMaxDuration)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateUpdateAppointmentRequest validates a partial appointment update.
func ValidateUpdateAppointmentRequest(req models.UpdateAppointmentRequest) error {
	errs := validation.Errors{}
	if req.Status != nil {
		errs["status"] = validation.Validate(*req.Status, validation.In(
			models.AppointmentStatusScheduled, models.AppointmentStatusConfirmed,
			models.AppointmentStatusInProgress, models.AppointmentStatusCompleted,
			models.AppointmentStatusCancelled, models.AppointmentStatusNoShow))
	}
	if req.Duration != nil {
		errs["duration"] = validation.Validate(*req.Duration,
			validation.Min(models.AppointmentMinDuration), validation.Max(models.AppointmentMaxDuration))
	}
	if err := errs.Filter(); err != nil {
		log.Printf("Validation error: %v\n", err)
		return err
	}
	return nil
}
