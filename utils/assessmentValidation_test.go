package utils

import (
	"CogniCare/models"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraftRequest() models.SaveDraftRequest {
	return models.SaveDraftRequest{
		FormType: models.FormTypeSelf,
		Language: "en",
		Patient: &models.PatientInput{
			FullName:    "Layla Nasser",
			DateOfBirth: "1952-07-14",
			Gender:      "F",
			Email:       "layla@example.com",
		},
		Responses: map[string]interface{}{"1": "2024-03-01"},
	}
}

func TestValidateSaveDraftRequestValid(t *testing.T) {
	assert.NoError(t, ValidateSaveDraftRequest(validDraftRequest()))
}

func TestValidateSaveDraftRequestMissingPatient(t *testing.T) {
	req := validDraftRequest()
	req.Patient = nil
	req.PatientID = ""

	err := ValidateSaveDraftRequest(req)
	require.Error(t, err)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "patient")
}

func TestValidateSaveDraftRequestPatientIDAlone(t *testing.T) {
	req := validDraftRequest()
	req.Patient = nil
	req.PatientID = "MRN-2026-00003"
	assert.NoError(t, ValidateSaveDraftRequest(req))
}

func TestValidateSaveDraftRequestBadFields(t *testing.T) {
	req := validDraftRequest()
	req.FormType = "OTHER"
	req.Language = "fr"
	req.Patient.DateOfBirth = "14/07/1952"
	req.Patient.Gender = "X"
	req.Patient.Email = "not-an-email"

	err := ValidateSaveDraftRequest(req)
	require.Error(t, err)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "formType")
	assert.Contains(t, errs, "language")
	assert.Contains(t, errs, "patient.dateOfBirth")
	assert.Contains(t, errs, "patient.gender")
	assert.Contains(t, errs, "patient.email")
}

func TestValidateSaveDraftRequestProxyNeedsProxyInfo(t *testing.T) {
	req := validDraftRequest()
	req.FormType = models.FormTypeProxy

	err := ValidateSaveDraftRequest(req)
	require.Error(t, err)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "proxyInfo")

	req.ProxyInfo = &models.ProxyInput{Name: "Rana Nasser", Relation: "Daughter"}
	assert.NoError(t, ValidateSaveDraftRequest(req))
}

func TestValidateReviewRequest(t *testing.T) {
	assert.NoError(t, ValidateReviewRequest(models.ReviewRequest{
		ReviewNotes: "looks fine",
		Status:      models.AssessmentStatusUnderReview,
	}))

	badScore := 120.0
	err := ValidateReviewRequest(models.ReviewRequest{
		ReviewNotes:   "n",
		Status:        models.AssessmentStatusCompleted,
		ClinicalScore: &badScore,
	})
	require.Error(t, err)

	err = ValidateReviewRequest(models.ReviewRequest{
		ReviewNotes: "n",
		Status:      models.AssessmentStatusCancelled,
	})
	require.Error(t, err)
}

func TestValidateScheduleAppointmentRequest(t *testing.T) {
	valid := models.ScheduleAppointmentRequest{
		PatientID:   "MRN-2026-00003",
		Type:        models.AppointmentTypeVirtual,
		ScheduledAt: time.Date(2026, 10, 5, 14, 0, 0, 0, time.UTC),
		Duration:    30,
	}
	assert.NoError(t, ValidateScheduleAppointmentRequest(valid))

	tooShort := valid
	tooShort.Duration = 10
	assert.Error(t, ValidateScheduleAppointmentRequest(tooShort))

	tooLong := valid
	tooLong.Duration = 200
	assert.Error(t, ValidateScheduleAppointmentRequest(tooLong))

	badType := valid
	badType.Type = "PHONE"
	assert.Error(t, ValidateScheduleAppointmentRequest(badType))
}

func TestValidateUpdateAppointmentRequest(t *testing.T) {
	assert.NoError(t, ValidateUpdateAppointmentRequest(models.UpdateAppointmentRequest{}))

	status := models.AppointmentStatusConfirmed
	assert.NoError(t, ValidateUpdateAppointmentRequest(models.UpdateAppointmentRequest{Status: &status}))

	bad := "UNKNOWN"
	assert.Error(t, ValidateUpdateAppointmentRequest(models.UpdateAppointmentRequest{Status: &bad}))

	shortDuration := 5
	assert.Error(t, ValidateUpdateAppointmentRequest(models.UpdateAppointmentRequest{Duration: &shortDuration}))
}
