package utils

import "CogniCare/models"

// StatusMessage is a localized notification text pair for an appointment
// status change.
type StatusMessage struct {
	Subject string
	Body    string
}

// Status-change message catalog keyed by appointment status, then language.
// Statuses absent from the catalog produce no notification.
var appointmentStatusMessages = map[string]map[string]StatusMessage{
	models.AppointmentStatusConfirmed: {
		"en": {Subject: "Appointment confirmed", Body: "Your appointment has been confirmed."},
		"ar": {Subject: "تم تأكيد الموعد", Body: "تم تأكيد موعدك."},
	},
	models.AppointmentStatusCancelled: {
		"en": {Subject: "Appointment cancelled", Body: "Your appointment has been cancelled. Please contact the clinic to reschedule."},
		"ar": {Subject: "تم إلغاء الموعد", Body: "تم إلغاء موعدك. يرجى التواصل مع العيادة لإعادة الجدولة."},
	},
	models.AppointmentStatusCompleted: {
		"en": {Subject: "Appointment completed", Body: "Thank you for attending your appointment."},
		"ar": {Subject: "اكتمل الموعد", Body: "شكراً لحضوركم الموعد."},
	},
	models.AppointmentStatusNoShow: {
		"en": {Subject: "Missed appointment", Body: "You missed your scheduled appointment. Please contact the clinic to rebook."},
		"ar": {Subject: "موعد فائت", Body: "لقد فاتك موعدك المحدد. يرجى التواصل مع العيادة لإعادة الحجز."},
	},
}

// AppointmentStatusMessage returns the localized message for a status change
// and whether one exists. Unknown statuses return ok=false; callers send
// nothing in that case. Languages other than Arabic fall back to English.
func AppointmentStatusMessage(status, language string) (StatusMessage, bool) {
	byLanguage, ok := appointmentStatusMessages[status]
	if !ok {
		return StatusMessage{}, false
	}
	if msg, ok := byLanguage[language]; ok {
		return msg, true
	}
	return byLanguage["en"], true
}
