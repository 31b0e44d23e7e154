package services

import (
	"PatientCare/apperrors"
	"PatientCare/models"
	"PatientCare/utils"
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

var (
	maxFee = decimal.New(1, 8)

	errFeeDigits   = errors.New("Ensure that there are no more than 8 digits before the decimal point.")
	errFeePlaces   = errors.New("Ensure that there are no more than 2 decimal places.")
	errFeeNegative = errors.New("Ensure this value is greater than or equal to 0.")
)

// DoctorInput is the writable part of a doctor.
type DoctorInput struct {
	FirstName           string                `json:"first_name"`
	LastName            string                `json:"last_name"`
	Email               string                `json:"email"`
	PhoneNumber         string                `json:"phone_number"`
	Specialization      models.Specialization `json:"specialization"`
	LicenseNumber       string                `json:"license_number"`
	YearsOfExperience   *int                  `json:"years_of_experience"`
	Qualification       string                `json:"qualification"`
	HospitalAffiliation string                `json:"hospital_affiliation"`
	OfficeAddress       string                `json:"office_address"`
	City                string                `json:"city"`
	State               string                `json:"state"`
	ZipCode             string                `json:"zip_code"`
	Country             string                `json:"country"`
	ConsultationFee     *decimal.Decimal      `json:"consultation_fee"`
	Bio                 string                `json:"bio"`
	IsActive            *bool                 `json:"is_active"`
}

// feeRule enforces numeric(10,2).
func feeRule(value interface{}) error {
	fee, _ := value.(*decimal.Decimal)
	if fee == nil {
		return nil
	}
	if fee.IsNegative() {
		return errFeeNegative
	}
	if !fee.Equal(fee.Round(2)) {
		return errFeePlaces
	}
	if fee.GreaterThanOrEqual(maxFee) {
		return errFeeDigits
	}
	return nil
}

func (in DoctorInput) Validate() error {
	return utils.ValidationError(validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.LastName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.Email, validation.Required, validation.RuneLength(1, 254), is.EmailFormat),
		validation.Field(&in.PhoneNumber, validation.Required, validation.RuneLength(1, 17), utils.PhoneRule()),
		validation.Field(&in.Specialization, validation.Required, validation.In(models.SpecializationValues()...)),
		validation.Field(&in.LicenseNumber, validation.Required, validation.RuneLength(1, 50)),
		validation.Field(&in.YearsOfExperience, validation.NotNil, validation.Min(0)),
		validation.Field(&in.Qualification, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.HospitalAffiliation, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.OfficeAddress, validation.Required),
		validation.Field(&in.City, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.State, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.ZipCode, validation.Required, validation.RuneLength(1, 10)),
		validation.Field(&in.Country, validation.RuneLength(0, 100)),
		validation.Field(&in.ConsultationFee, validation.NotNil, validation.By(feeRule)),
	))
}

func (in DoctorInput) apply(d *models.Doctor) {
	d.FirstName = strings.TrimSpace(in.FirstName)
	d.LastName = strings.TrimSpace(in.LastName)
	d.Email = strings.TrimSpace(in.Email)
	d.PhoneNumber = in.PhoneNumber
	d.Specialization = in.Specialization
	d.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	if in.YearsOfExperience != nil {
		d.YearsOfExperience = *in.YearsOfExperience
	}
	d.Qualification = in.Qualification
	d.HospitalAffiliation = in.HospitalAffiliation
	d.OfficeAddress = in.OfficeAddress
	d.City = in.City
	d.State = in.State
	d.ZipCode = in.ZipCode
	if in.Country != "" {
		d.Country = in.Country
	} else if d.Country == "" {
		d.Country = DefaultCountry
	}
	if in.ConsultationFee != nil {
		d.ConsultationFee = *in.ConsultationFee
	}
	d.Bio = in.Bio
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	} else if d.ID == 0 {
		d.IsActive = true
	}
}

func DoctorInputFrom(d *models.Doctor) DoctorInput {
	years := d.YearsOfExperience
	fee := d.ConsultationFee
	active := d.IsActive
	return DoctorInput{
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		Email:               d.Email,
		PhoneNumber:         d.PhoneNumber,
		Specialization:      d.Specialization,
		LicenseNumber:       d.LicenseNumber,
		YearsOfExperience:   &years,
		Qualification:       d.Qualification,
		HospitalAffiliation: d.HospitalAffiliation,
		OfficeAddress:       d.OfficeAddress,
		City:                d.City,
		State:               d.State,
		ZipCode:             d.ZipCode,
		Country:             d.Country,
		ConsultationFee:     &fee,
		Bio:                 d.Bio,
		IsActive:            &active,
	}
}

// ValidateDoctor checks the field constraints and builds an unsaved doctor.
func ValidateDoctor(in DoctorInput) (*models.Doctor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	d := &models.Doctor{}
	in.apply(d)
	return d, nil
}

type DoctorService struct {
	doctors DoctorStore
}

func NewDoctorService(doctors DoctorStore) *DoctorService {
	return &DoctorService{doctors: doctors}
}

func (s *DoctorService) Create(ctx context.Context, accountID uint, in DoctorInput) (*models.Doctor, error) {
	doctor, err := ValidateDoctor(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, doctor); err != nil {
		return nil, err
	}

	doctor.CreatedByID = accountID
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return s.doctors.GetByID(ctx, doctor.ID)
}

func (s *DoctorService) List(ctx context.Context, filter models.DoctorFilter, page utils.PageRequest) ([]models.Doctor, int64, error) {
	return s.doctors.ListActive(ctx, filter, page)
}

func (s *DoctorService) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	return s.doctors.GetDetail(ctx, id)
}

func (s *DoctorService) Update(ctx context.Context, accountID, id uint, in DoctorInput) (*models.Doctor, error) {
	doctor, err := s.GetOwned(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.apply(doctor)
	if err := s.checkUnique(ctx, doctor); err != nil {
		return nil, err
	}

	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return s.doctors.GetDetail(ctx, doctor.ID)
}

func (s *DoctorService) Delete(ctx context.Context, accountID, id uint) error {
	if _, err := s.GetOwned(ctx, accountID, id); err != nil {
		return err
	}
	return s.doctors.Delete(ctx, id)
}

// GetOwned loads the doctor for a write. Missing doctors are 404, doctors of
// another account are 403.
func (s *DoctorService) GetOwned(ctx context.Context, accountID, id uint) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanWriteDoctor(accountID, doctor) {
		return nil, apperrors.Forbidden("You do not have permission to modify this doctor.")
	}
	return doctor, nil
}

func (s *DoctorService) checkUnique(ctx context.Context, d *models.Doctor) error {
	fields := map[string]string{}
	taken, err := s.doctors.EmailTaken(ctx, d.Email, d.ID)
	if err != nil {
		return err
	}
	if taken {
		fields["email"] = "doctor with this email already exists."
	}
	taken, err = s.doctors.LicenseTaken(ctx, d.LicenseNumber, d.ID)
	if err != nil {
		return err
	}
	if taken {
		fields["license_number"] = "doctor with this license number already exists."
	}
	if len(fields) > 0 {
		return &apperrors.Error{Kind: apperrors.KindConstraint, Message: "Constraint violation", Fields: fields}
	}
	return nil
}
