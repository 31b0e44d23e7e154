package services

import (
	"PatientCare/apperrors"
	"PatientCare/models"
	"PatientCare/utils"
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const DefaultCountry = "USA"

// PatientInput is the writable part of a patient.
type PatientInput struct {
	FirstName             string            `json:"first_name"`
	LastName              string            `json:"last_name"`
	Email                 string            `json:"email"`
	PhoneNumber           string            `json:"phone_number"`
	DateOfBirth           models.Date       `json:"date_of_birth"`
	Gender                models.Gender     `json:"gender"`
	BloodGroup            models.BloodGroup `json:"blood_group"`
	Address               string            `json:"address"`
	City                  string            `json:"city"`
	State                 string            `json:"state"`
	ZipCode               string            `json:"zip_code"`
	Country               string            `json:"country"`
	EmergencyContactName  string            `json:"emergency_contact_name"`
	EmergencyContactPhone string            `json:"emergency_contact_phone"`
	MedicalHistory        string            `json:"medical_history"`
	Allergies             string            `json:"allergies"`
	CurrentMedications    string            `json:"current_medications"`
	IsActive              *bool             `json:"is_active"`
}

func requiredDate(value interface{}) error {
	if d, ok := value.(models.Date); ok && d.IsZero() {
		return validation.ErrRequired
	}
	return nil
}

func (in PatientInput) Validate() error {
	return utils.ValidationError(validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.LastName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.Email, validation.Required, validation.RuneLength(1, 254), is.EmailFormat),
		validation.Field(&in.PhoneNumber, validation.RuneLength(0, 17), utils.PhoneRule()),
		validation.Field(&in.DateOfBirth, validation.By(requiredDate)),
		validation.Field(&in.Gender, validation.Required, validation.In(models.GenderValues()...)),
		validation.Field(&in.BloodGroup, validation.In(models.BloodGroupValues()...)),
		validation.Field(&in.Address, validation.Required),
		validation.Field(&in.City, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.State, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.ZipCode, validation.Required, validation.RuneLength(1, 10)),
		validation.Field(&in.Country, validation.RuneLength(0, 100)),
		validation.Field(&in.EmergencyContactName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.EmergencyContactPhone, validation.Required, validation.RuneLength(1, 17), utils.PhoneRule()),
	))
}

// apply copies the input onto p. Omitted country and is_active keep the
// stored value, or take the default on a new patient.
func (in PatientInput) apply(p *models.Patient) {
	p.FirstName = strings.TrimSpace(in.FirstName)
	p.LastName = strings.TrimSpace(in.LastName)
	p.Email = strings.TrimSpace(in.Email)
	p.PhoneNumber = in.PhoneNumber
	p.DateOfBirth = in.DateOfBirth
	p.Gender = in.Gender
	p.BloodGroup = in.BloodGroup
	p.Address = in.Address
	p.City = in.City
	p.State = in.State
	p.ZipCode = in.ZipCode
	if in.Country != "" {
		p.Country = in.Country
	} else if p.Country == "" {
		p.Country = DefaultCountry
	}
	p.EmergencyContactName = in.EmergencyContactName
	p.EmergencyContactPhone = in.EmergencyContactPhone
	p.MedicalHistory = in.MedicalHistory
	p.Allergies = in.Allergies
	p.CurrentMedications = in.CurrentMedications
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	} else if p.ID == 0 {
		p.IsActive = true
	}
}

// PatientInputFrom returns the input that reproduces p. Partial updates
// decode over it.
func PatientInputFrom(p *models.Patient) PatientInput {
	active := p.IsActive
	return PatientInput{
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		Email:                 p.Email,
		PhoneNumber:           p.PhoneNumber,
		DateOfBirth:           p.DateOfBirth,
		Gender:                p.Gender,
		BloodGroup:            p.BloodGroup,
		Address:               p.Address,
		City:                  p.City,
		State:                 p.State,
		ZipCode:               p.ZipCode,
		Country:               p.Country,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		MedicalHistory:        p.MedicalHistory,
		Allergies:             p.Allergies,
		CurrentMedications:    p.CurrentMedications,
		IsActive:              &active,
	}
}

// ValidatePatient checks the field constraints and builds an unsaved patient.
func ValidatePatient(in PatientInput) (*models.Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &models.Patient{}
	in.apply(p)
	return p, nil
}

type PatientService struct {
	patients PatientStore
}

func NewPatientService(patients PatientStore) *PatientService {
	return &PatientService{patients: patients}
}

func (s *PatientService) Create(ctx context.Context, accountID uint, in PatientInput) (*models.Patient, error) {
	patient, err := ValidatePatient(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, patient.Email, 0); err != nil {
		return nil, err
	}

	patient.CreatedByID = accountID
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, patient.ID)
}

func (s *PatientService) List(ctx context.Context, accountID uint, filter models.PatientFilter, page utils.PageRequest) ([]models.Patient, int64, error) {
	return s.patients.ListActiveByOwner(ctx, accountID, filter, page)
}

// Get returns the patient with its mappings. Patients owned by another
// account are reported as not found.
func (s *PatientService) Get(ctx context.Context, accountID, id uint) (*models.Patient, error) {
	patient, err := s.patients.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanReadPatient(accountID, patient) {
		return nil, apperrors.NotFound("patient")
	}
	return patient, nil
}

func (s *PatientService) Update(ctx context.Context, accountID, id uint, in PatientInput) (*models.Patient, error) {
	patient, err := s.GetOwned(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.apply(patient)
	if err := s.checkEmail(ctx, patient.Email, patient.ID); err != nil {
		return nil, err
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return s.patients.GetDetail(ctx, patient.ID)
}

func (s *PatientService) Delete(ctx context.Context, accountID, id uint) error {
	if _, err := s.GetOwned(ctx, accountID, id); err != nil {
		return err
	}
	return s.patients.Delete(ctx, id)
}

// GetOwned loads a patient the caller may write; other accounts get 404.
func (s *PatientService) GetOwned(ctx context.Context, accountID, id uint) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanWritePatient(accountID, patient) {
		return nil, apperrors.NotFound("patient")
	}
	return patient, nil
}

// checkEmail is the friendly pre-check; the unique index still decides races.
func (s *PatientService) checkEmail(ctx context.Context, email string, excludeID uint) error {
	taken, err := s.patients.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Constraint("email", "patient with this email already exists.")
	}
	return nil
}
