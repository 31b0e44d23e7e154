package services

import (
	"PatientCare/apperrors"
	"PatientCare/models"
	"PatientCare/utils"
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type MappingInput struct {
	Patient uint                 `json:"patient"`
	Doctor  uint                 `json:"doctor"`
	Status  models.MappingStatus `json:"status"`
	Notes   string               `json:"notes"`
}

func (in MappingInput) Validate() error {
	return utils.ValidationError(validation.ValidateStruct(&in,
		validation.Field(&in.Patient, validation.Required),
		validation.Field(&in.Doctor, validation.Required),
		validation.Field(&in.Status, validation.In(models.MappingStatusValues()...)),
	))
}

func MappingInputFrom(m *models.Mapping) MappingInput {
	return MappingInput{
		Patient: m.PatientID,
		Doctor:  m.DoctorID,
		Status:  m.Status,
		Notes:   m.Notes,
	}
}

func invalidReference(field string, id uint) error {
	return apperrors.Field(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
}

type MappingService struct {
	mappings MappingStore
	patients PatientStore
	doctors  DoctorStore
}

func NewMappingService(mappings MappingStore, patients PatientStore, doctors DoctorStore) *MappingService {
	return &MappingService{mappings: mappings, patients: patients, doctors: doctors}
}

// ValidateMapping checks the payload against persisted state and builds an
// unsaved mapping. The duplicate pair check runs before the reference checks.
// excludeID is the mapping being updated, or 0 on create.
func (s *MappingService) ValidateMapping(ctx context.Context, accountID uint, in MappingInput, excludeID uint) (*models.Mapping, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.mappings.PairExists(ctx, in.Patient, in.Doctor, excludeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.DuplicateMapping()
	}

	patient, err := s.patients.GetByID(ctx, in.Patient)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, invalidReference("patient", in.Patient)
		}
		return nil, err
	}
	// Another account's patient is reported exactly like a missing one.
	if !CanWritePatient(accountID, patient) {
		return nil, invalidReference("patient", in.Patient)
	}

	if _, err := s.doctors.GetByID(ctx, in.Doctor); err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, invalidReference("doctor", in.Doctor)
		}
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.MappingStatusActive
	}
	return &models.Mapping{
		PatientID: in.Patient,
		DoctorID:  in.Doctor,
		Status:    status,
		Notes:     in.Notes,
	}, nil
}

func (s *MappingService) Create(ctx context.Context, accountID uint, in MappingInput) (*models.Mapping, error) {
	mapping, err := s.ValidateMapping(ctx, accountID, in, 0)
	if err != nil {
		return nil, err
	}
	mapping.CreatedByID = accountID
	if err := s.mappings.Create(ctx, mapping); err != nil {
		return nil, err
	}
	return s.mappings.GetByID(ctx, mapping.ID)
}

func (s *MappingService) List(ctx context.Context, filter models.MappingFilter, page utils.PageRequest) ([]models.Mapping, int64, error) {
	return s.mappings.List(ctx, filter, page)
}

// ListForPatient returns every mapping of a patient the caller owns.
func (s *MappingService) ListForPatient(ctx context.Context, accountID, patientID uint) ([]models.Mapping, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !CanReadPatient(accountID, patient) {
		return nil, apperrors.NotFound("patient")
	}
	return s.mappings.ListByPatient(ctx, patientID)
}

func (s *MappingService) Get(ctx context.Context, id uint) (*models.Mapping, error) {
	return s.mappings.GetByID(ctx, id)
}

// Update replaces the mapping fields. Changing the pair re-runs the
// duplicate check against the stored mappings.
func (s *MappingService) Update(ctx context.Context, accountID, id uint, in MappingInput) (*models.Mapping, error) {
	mapping, err := s.GetOwned(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	validated, err := s.ValidateMapping(ctx, accountID, in, mapping.ID)
	if err != nil {
		return nil, err
	}

	mapping.PatientID = validated.PatientID
	mapping.DoctorID = validated.DoctorID
	mapping.Status = validated.Status
	mapping.Notes = validated.Notes
	if err := s.mappings.Update(ctx, mapping); err != nil {
		return nil, err
	}
	return s.mappings.GetByID(ctx, mapping.ID)
}

func (s *MappingService) Delete(ctx context.Context, accountID, id uint) error {
	if _, err := s.GetOwned(ctx, accountID, id); err != nil {
		return err
	}
	return s.mappings.Delete(ctx, id)
}

func (s *MappingService) GetOwned(ctx context.Context, accountID, id uint) (*models.Mapping, error) {
	mapping, err := s.mappings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanWriteMapping(accountID, mapping) {
		return nil, apperrors.NotFound("mapping")
	}
	return mapping, nil
}
