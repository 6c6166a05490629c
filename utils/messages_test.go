package utils

import (
	"CogniCare/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatusMessageLocalization(t *testing.T) {
	en, ok := AppointmentStatusMessage(models.AppointmentStatusConfirmed, "en")
	require.True(t, ok)
	assert.Equal(t, "Appointment confirmed", en.Subject)

	ar, ok := AppointmentStatusMessage(models.AppointmentStatusConfirmed, "ar")
	require.True(t, ok)
	assert.Equal(t, "تم تأكيد الموعد", ar.Subject)
}

func TestAppointmentStatusMessageFallsBackToEnglish(t *testing.T) {
	msg, ok := AppointmentStatusMessage(models.AppointmentStatusCancelled, "fr")
	require.True(t, ok)
	assert.Equal(t, "Appointment cancelled", msg.Subject)
}

func TestAppointmentStatusMessageUnknownStatus(t *testing.T) {
	_, ok := AppointmentStatusMessage(models.AppointmentStatusScheduled, "en")
	assert.False(t, ok)

	_, ok = AppointmentStatusMessage("SOMETHING_ELSE", "en")
	assert.False(t, ok)
}
