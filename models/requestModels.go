package models

import "time"

// PatientInput identifies or describes the patient an assessment is for.
// Matching is by email first, then phone; otherwise a new record is created.
type PatientInput struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// ProxyInput describes who is completing the form on the patient's behalf.
type ProxyInput struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// SaveDraftRequest is the body of a draft-save call. Either PatientID or
// Patient must be supplied. Responses map question ids to raw answer values;
// empty answers are dropped, not stored.
type SaveDraftRequest struct {
	PatientID string                   `json:"patientId"`
	Patient   *PatientInput            `json:"patient"`
	FormType  string                   `json:"formType"`
	Language  string                   `json:"language"`
	ProxyInfo *ProxyInput              `json:"proxyInfo"`
	Responses map[string]interface{}   `json:"responses"`
}

// SaveDraftResult is returned from a successful draft save.
type SaveDraftResult struct {
	AssessmentID     uint   `json:"assessmentId"`
	AssessmentNumber string `json:"assessmentNumber"`
	MRN              string `json:"mrn"`
}

// ReviewRequest carries a reviewer's notes and verdict.
type ReviewRequest struct {
	ReviewNotes     string   `json:"reviewNotes"`
	ClinicalScore   *float64 `json:"clinicalScore"`
	Recommendations string   `json:"recommendations"`
	Status          string   `json:"status"`
}

// ScheduleAppointmentRequest creates a new appointment.
type ScheduleAppointmentRequest struct {
	PatientID    string    `json:"patientId"`
	AssessmentID *uint     `json:"assessmentId"`
	Type         string    `json:"type"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Duration     int       `json:"duration"`
	Notes        string    `json:"notes"`
}

// UpdateAppointmentRequest applies a partial appointment update. Nil fields
// are left untouched.
type UpdateAppointmentRequest struct {
	Status      *string    `json:"status"`
	Notes       *string    `json:"notes"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Duration    *int       `json:"duration"`
}
