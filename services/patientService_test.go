package services

import (
	"CogniCare/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCreatesNewPatient(t *testing.T) {
	repo := newFakePatientRepo()
	service := NewPatientService(repo)

	patient, err := service.Resolve(context.Background(), models.PatientInput{
		FullName:    "Layla Nasser",
		DateOfBirth: "1952-07-14",
		Gender:      "F",
		Email:       "layla@example.com",
		Phone:       "+96170000001",
	}, models.FormTypeSelf, userCaller)
	require.NoError(t, err)
	assert.Equal(t, "MRN-2026-00001", patient.ID)
	require.NotNil(t, patient.UserID)
	assert.Equal(t, userCaller.ID, *patient.UserID)
}

func TestResolveProxyDoesNotLinkUser(t *testing.T) {
	repo := newFakePatientRepo()
	service := NewPatientService(repo)

	patient, err := service.Resolve(context.Background(), models.PatientInput{
		FullName: "Layla Nasser",
		Phone:    "+96170000001",
	}, models.FormTypeProxy, userCaller)
	require.NoError(t, err)
	assert.Nil(t, patient.UserID)
	assert.Empty(t, repo.linked)
}

func TestResolveMatchesByEmail(t *testing.T) {
	existing := &models.Patient{ID: "MRN-2025-00042", FullName: "Layla Nasser", Email: "layla@example.com", Phone: "+96170000001"}
	repo := newFakePatientRepo(existing)
	service := NewPatientService(repo)

	patient, err := service.Resolve(context.Background(), models.PatientInput{
		FullName: "Layla Nasser",
		Email:    "layla@example.com",
	}, models.FormTypeProxy, userCaller)
	require.NoError(t, err)
	assert.Equal(t, "MRN-2025-00042", patient.ID)
}

func TestResolveFallsBackToPhone(t *testing.T) {
	existing := &models.Patient{ID: "MRN-2025-00042", FullName: "Layla Nasser", Phone: "+96170000001"}
	repo := newFakePatientRepo(existing)
	service := NewPatientService(repo)

	patient, err := service.Resolve(context.Background(), models.PatientInput{
		FullName: "Layla Nasser",
		Email:    "new-address@example.com",
		Phone:    "+96170000001",
	}, models.FormTypeProxy, userCaller)
	require.NoError(t, err)
	assert.Equal(t, "MRN-2025-00042", patient.ID)
	// The fresh email is merged onto the matched record.
	assert.Equal(t, "new-address@example.com", patient.Email)
}

func TestResolveMergeKeepsStoredValues(t *testing.T) {
	existing := &models.Patient{
		ID:          "MRN-2025-00042",
		FullName:    "Layla Nasser",
		DateOfBirth: "1952-07-14",
		Gender:      "F",
		Email:       "layla@example.com",
		Address:     "Beirut",
	}
	repo := newFakePatientRepo(existing)
	service := NewPatientService(repo)

	patient, err := service.Resolve(context.Background(), models.PatientInput{
		Email: "layla@example.com",
		Phone: "+96170000002",
	}, models.FormTypeProxy, userCaller)
	require.NoError(t, err)

	// Blank incoming fields never erase what is already on file.
	assert.Equal(t, "Layla Nasser", patient.FullName)
	assert.Equal(t, "1952-07-14", patient.DateOfBirth)
	assert.Equal(t, "Beirut", patient.Address)
	assert.Equal(t, "+96170000002", patient.Phone)
}

func TestResolveSelfLinksExistingUnlinkedPatient(t *testing.T) {
	existing := &models.Patient{ID: "MRN-2025-00042", FullName: "Sami Haddad", Email: "sami@example.com"}
	repo := newFakePatientRepo(existing)
	service := NewPatientService(repo)

	patient, err := service.Resolve(context.Background(), models.PatientInput{
		Email: "sami@example.com",
	}, models.FormTypeSelf, userCaller)
	require.NoError(t, err)
	require.NotNil(t, patient.UserID)
	assert.Equal(t, userCaller.ID, *patient.UserID)
	assert.Equal(t, userCaller.ID, repo.linked["MRN-2025-00042"])
}

func TestGetByIDStaffOnly(t *testing.T) {
	repo := newFakePatientRepo(&models.Patient{ID: "MRN-2025-00042"})
	service := NewPatientService(repo)

	_, err := service.GetByID(context.Background(), "MRN-2025-00042", userCaller)
	assert.ErrorIs(t, err, ErrForbidden)

	patient, err := service.GetByID(context.Background(), "MRN-2025-00042", staffCaller)
	require.NoError(t, err)
	assert.Equal(t, "MRN-2025-00042", patient.ID)

	_, err = service.GetByID(context.Background(), "MRN-2025-99999", staffCaller)
	assert.ErrorIs(t, err, ErrNotFound)
}
