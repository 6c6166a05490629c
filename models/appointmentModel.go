package models

import (
	"time"

	"gorm.io/datatypes"
)

// Appointment statuses
const (
	AppointmentStatusScheduled  = "SCHEDULED"
	AppointmentStatusConfirmed  = "CONFIRMED"
	AppointmentStatusInProgress = "IN_PROGRESS"
	AppointmentStatusCompleted  = "COMPLETED"
	AppointmentStatusCancelled  = "CANCELLED"
	AppointmentStatusNoShow     = "NO_SHOW"
)

// Appointment types
const (
	AppointmentTypeInPerson  = "IN_PERSON"
	AppointmentTypeVirtual   = "VIRTUAL"
	AppointmentTypeHomeVisit = "HOME_VISIT"
)

// Appointment duration bounds in minutes.
const (
	AppointmentMinDuration = 15
	AppointmentMaxDuration = 180
)

// Appointment model. MeetingID references the external video-consultation
// resource for VIRTUAL appointments; MeetingData holds the provider's
// response payload (join URL, host URL) as returned at creation.
type Appointment struct {
	ID           uint                  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID    string                `gorm:"column:patient_id;not null;index" json:"patient_id"`
	AssessmentID *uint                 `gorm:"column:assessment_id;index" json:"assessment_id"`
	Type         string                `gorm:"column:type;check:type IN ('IN_PERSON', 'VIRTUAL', 'HOME_VISIT');not null" json:"type"`
	Status       string                `gorm:"column:status;check:status IN ('SCHEDULED', 'CONFIRMED', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED', 'NO_SHOW');not null" json:"status"`
	ScheduledAt  time.Time             `gorm:"column:scheduled_at;not null;index" json:"scheduled_at"`
	Duration     int                   `gorm:"column:duration;not null" json:"duration"`
	Notes        string                `gorm:"column:notes;type:text" json:"notes"`
	MeetingID    string                `gorm:"column:meeting_id" json:"meeting_id"`
	MeetingData  datatypes.JSON        `gorm:"column:meeting_data" json:"meeting_data"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient      Patient               `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Assessment   *Assessment           `gorm:"foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	Reminders    []AppointmentReminder `gorm:"foreignKey:AppointmentID;references:ID" json:"-"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// AppointmentReminder model. Reminder rows must be deleted before their
// appointment row to avoid dangling references.
type AppointmentReminder struct {
	ID            uint        `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID uint        `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	RemindAt      time.Time   `gorm:"column:remind_at;not null" json:"remind_at"`
	Channel       string      `gorm:"column:channel;check:channel IN ('EMAIL', 'SMS');not null" json:"channel"`
	Sent          bool        `gorm:"column:sent;not null;default:false" json:"sent"`
	Appointment   Appointment `gorm:"foreignKey:AppointmentID;references:ID" json:"-"`
}

func (AppointmentReminder) TableName() string {
	return "appointment_reminder"
}
