package services

import (
	"CogniCare/models"
	"CogniCare/repositories"
	"context"
	"fmt"

	"github.com/jinzhu/copier"
)

type PatientService struct {
	repository repositories.PatientRepository
}

func NewPatientService(repository repositories.PatientRepository) *PatientService {
	return &PatientService{repository: repository}
}

// Resolve finds the patient a submission is about, matching by email first
// and phone second, and creates a new record with a fresh MRN when neither
// matches. On a match the incoming fields are merged non-destructively:
// values the caller left blank never erase stored data. A SELF submission
// additionally links the submitting user to the patient the first time.
func (s *PatientService) Resolve(ctx context.Context, input models.PatientInput, formType string, caller models.Caller) (*models.Patient, error) {
	patient, err := s.repository.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		patient, err = s.repository.FindByPhone(ctx, input.Phone)
		if err != nil {
			return nil, err
		}
	}

	if patient == nil {
		patient = &models.Patient{
			FullName:    input.FullName,
			DateOfBirth: input.DateOfBirth,
			Gender:      input.Gender,
			Email:       input.Email,
			Phone:       input.Phone,
			Address:     input.Address,
		}
		if formType == models.FormTypeSelf {
			patient.UserID = &caller.ID
		}
		if err := s.repository.Create(ctx, patient); err != nil {
			return nil, err
		}
		return patient, nil
	}

	incoming := models.Patient{
		FullName:    input.FullName,
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
	}
	if err := copier.CopyWithOption(patient, &incoming, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to merge patient fields: %w", err)
	}
	if err := s.repository.Update(ctx, patient); err != nil {
		return nil, err
	}

	if formType == models.FormTypeSelf && patient.UserID == nil {
		if err := s.repository.LinkUser(ctx, patient.ID, caller.ID); err != nil {
			return nil, err
		}
		patient.UserID = &caller.ID
	}

	return patient, nil
}

// GetByID returns a patient or ErrNotFound.
func (s *PatientService) GetByID(ctx context.Context, id string, caller models.Caller) (*models.Patient, error) {
	if !caller.IsStaff() {
		return nil, ErrForbidden
	}
	patient, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrNotFound
	}
	return patient, nil
}

func (s *PatientService) GetAll(ctx context.Context, caller models.Caller) ([]models.Patient, error) {
	if !caller.IsStaff() {
		return nil, ErrForbidden
	}
	return s.repository.GetAll(ctx)
}
