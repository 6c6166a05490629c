package models

import (
	"time"
)

// Assessment statuses
const (
	AssessmentStatusDraft       = "DRAFT"
	AssessmentStatusSubmitted   = "SUBMITTED"
	AssessmentStatusUnderReview = "UNDER_REVIEW"
	AssessmentStatusCompleted   = "COMPLETED"
	AssessmentStatusCancelled   = "CANCELLED"
)

// Form types
const (
	FormTypeSelf  = "SELF"
	FormTypeProxy = "PROXY"
)

// Answer types
const (
	AnswerTypeMultipleChoice = "MULTIPLE_CHOICE"
	AnswerTypeBoolean        = "BOOLEAN"
	AnswerTypeNumber         = "NUMBER"
	AnswerTypeDate           = "DATE"
	AnswerTypeScale          = "SCALE"
	AnswerTypeText           = "TEXT"
)

// Assessment model. One record per submission attempt, identified by a
// generated number (ASM-<year>-<sequence>). A patient/submitter pair holds
// at most one DRAFT at a time; the draft is updated in place until submission.
type Assessment struct {
	ID               uint                 `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AssessmentNumber string               `gorm:"column:assessment_number;unique;not null;index" json:"assessment_number"`
	PatientID        string               `gorm:"column:patient_id;not null;index:idx_patient_submitter" json:"patient_id"`
	SubmittedBy      int64                `gorm:"column:submitted_by;not null;index:idx_patient_submitter" json:"submitted_by"`
	FormType         string               `gorm:"column:form_type;check:form_type IN ('SELF', 'PROXY');not null" json:"form_type"`
	Language         string               `gorm:"column:language;not null" json:"language"`
	ProxyName        string               `gorm:"column:proxy_name" json:"proxy_name"`
	ProxyRelation    string               `gorm:"column:proxy_relation" json:"proxy_relation"`
	ProxyPhone       string               `gorm:"column:proxy_phone" json:"proxy_phone"`
	Status           string               `gorm:"column:status;check:status IN ('DRAFT', 'SUBMITTED', 'UNDER_REVIEW', 'COMPLETED', 'CANCELLED');not null" json:"status"`
	Reviewed         bool                 `gorm:"column:reviewed;not null;default:false" json:"reviewed"`
	ReviewNotes      string               `gorm:"column:review_notes" json:"review_notes"`
	ClinicalScore    *float64             `gorm:"column:clinical_score" json:"clinical_score"`
	Recommendations  string               `gorm:"column:recommendations" json:"recommendations"`
	ReviewedBy       string               `gorm:"column:reviewed_by" json:"reviewed_by"`
	ReviewedAt       *time.Time           `gorm:"column:reviewed_at" json:"reviewed_at"`
	SubmittedAt      *time.Time           `gorm:"column:submitted_at" json:"submitted_at"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient          Patient              `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Responses        []AssessmentResponse `gorm:"foreignKey:AssessmentID;references:ID" json:"responses"`
}

func (Assessment) TableName() string {
	return "assessment"
}

// AssessmentResponse model. QuestionText is a snapshot taken at save time so
// responses survive later edits or deletions of catalog questions.
type AssessmentResponse struct {
	ID           uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AssessmentID uint   `gorm:"column:assessment_id;not null;index" json:"assessment_id"`
	QuestionID   uint   `gorm:"column:question_id;not null" json:"question_id"`
	QuestionText string `gorm:"column:question_text;not null" json:"question_text"`
	AnswerValue  string `gorm:"column:answer_value;type:text;not null" json:"answer_value"`
	AnswerType   string `gorm:"column:answer_type;check:answer_type IN ('MULTIPLE_CHOICE', 'BOOLEAN', 'NUMBER', 'DATE', 'SCALE', 'TEXT');not null" json:"answer_type"`
}

func (AssessmentResponse) TableName() string {
	return "assessment_response"
}

// Notification model. Append-only log of outbound messages tied to an
// assessment; Sent records whether delivery actually succeeded.
type Notification struct {
	ID           uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AssessmentID uint      `gorm:"column:assessment_id;not null;index" json:"assessment_id"`
	Recipient    string    `gorm:"column:recipient" json:"recipient"`
	Subject      string    `gorm:"column:subject;not null" json:"subject"`
	Content      string    `gorm:"column:content;type:text" json:"content"`
	Sent         bool      `gorm:"column:sent;not null" json:"sent"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
