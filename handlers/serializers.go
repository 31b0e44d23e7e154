package handlers

import (
	"PatientCare/models"
	"PatientCare/utils"
	"time"
)

type AccountResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type TokensResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type AuthResponse struct {
	Message string          `json:"message"`
	User    AccountResponse `json:"user"`
	Tokens  TokensResponse  `json:"tokens"`
}

type PatientResponse struct {
	ID                    uint              `json:"id"`
	FirstName             string            `json:"first_name"`
	LastName              string            `json:"last_name"`
	FullName              string            `json:"full_name"`
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
	CreatedByUsername     string            `json:"created_by_username"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
	IsActive              bool              `json:"is_active"`
}

type PatientDetailResponse struct {
	PatientResponse
	DoctorMappings []MappingResponse `json:"doctor_mappings"`
}

type DoctorResponse struct {
	ID                  uint                  `json:"id"`
	FirstName           string                `json:"first_name"`
	LastName            string                `json:"last_name"`
	FullName            string                `json:"full_name"`
	Email               string                `json:"email"`
	PhoneNumber         string                `json:"phone_number"`
	Specialization      models.Specialization `json:"specialization"`
	LicenseNumber       string                `json:"license_number"`
	YearsOfExperience   int                   `json:"years_of_experience"`
	Qualification       string                `json:"qualification"`
	HospitalAffiliation string                `json:"hospital_affiliation"`
	OfficeAddress       string                `json:"office_address"`
	City                string                `json:"city"`
	State               string                `json:"state"`
	ZipCode             string                `json:"zip_code"`
	Country             string                `json:"country"`
	ConsultationFee     string                `json:"consultation_fee"`
	Bio                 string                `json:"bio"`
	CreatedByUsername   string                `json:"created_by_username"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	IsActive            bool                  `json:"is_active"`
}

type DoctorDetailResponse struct {
	DoctorResponse
	PatientMappings []MappingResponse `json:"patient_mappings"`
}

type MappingResponse struct {
	ID                   uint                  `json:"id"`
	Patient              uint                  `json:"patient"`
	Doctor               uint                  `json:"doctor"`
	PatientName          string                `json:"patient_name"`
	DoctorName           string                `json:"doctor_name"`
	PatientEmail         string                `json:"patient_email"`
	DoctorEmail          string                `json:"doctor_email"`
	DoctorSpecialization models.Specialization `json:"doctor_specialization"`
	AssignedDate         time.Time             `json:"assigned_date"`
	Status               models.MappingStatus  `json:"status"`
	Notes                string                `json:"notes"`
	CreatedByUsername    string                `json:"created_by_username"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

func NewAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

func NewAuthResponse(message string, a *models.Account, pair utils.TokenPair) AuthResponse {
	return AuthResponse{
		Message: message,
		User:    NewAccountResponse(a),
		Tokens:  TokensResponse{Refresh: pair.Refresh, Access: pair.Access},
	}
}

func NewPatientResponse(p *models.Patient) PatientResponse {
	return PatientResponse{
		ID:                    p.ID,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		FullName:              p.FullName(),
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
		CreatedByUsername:     p.CreatedBy.Username,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
		IsActive:              p.IsActive,
	}
}

func NewPatientDetailResponse(p *models.Patient) PatientDetailResponse {
	return PatientDetailResponse{
		PatientResponse: NewPatientResponse(p),
		DoctorMappings:  NewMappingResponses(p.DoctorMappings),
	}
}

func NewPatientResponses(patients []models.Patient) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, NewPatientResponse(&patients[i]))
	}
	return out
}

func NewDoctorResponse(d *models.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:                  d.ID,
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		FullName:            d.FullName(),
		Email:               d.Email,
		PhoneNumber:         d.PhoneNumber,
		Specialization:      d.Specialization,
		LicenseNumber:       d.LicenseNumber,
		YearsOfExperience:   d.YearsOfExperience,
		Qualification:       d.Qualification,
		HospitalAffiliation: d.HospitalAffiliation,
		OfficeAddress:       d.OfficeAddress,
		City:                d.City,
		State:               d.State,
		ZipCode:             d.ZipCode,
		Country:             d.Country,
		ConsultationFee:     d.ConsultationFee.StringFixed(2),
		Bio:                 d.Bio,
		CreatedByUsername:   d.CreatedBy.Username,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
		IsActive:            d.IsActive,
	}
}

func NewDoctorDetailResponse(d *models.Doctor) DoctorDetailResponse {
	return DoctorDetailResponse{
		DoctorResponse:  NewDoctorResponse(d),
		PatientMappings: NewMappingResponses(d.PatientMappings),
	}
}

func NewDoctorResponses(doctors []models.Doctor) []DoctorResponse {
	out := make([]DoctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, NewDoctorResponse(&doctors[i]))
	}
	return out
}

// NewMappingResponse denormalizes the related patient, doctor and creator.
// The relations must be loaded.
func NewMappingResponse(m *models.Mapping) MappingResponse {
	return MappingResponse{
		ID:                   m.ID,
		Patient:              m.PatientID,
		Doctor:               m.DoctorID,
		PatientName:          m.Patient.FullName(),
		DoctorName:           m.Doctor.FullName(),
		PatientEmail:         m.Patient.Email,
		DoctorEmail:          m.Doctor.Email,
		DoctorSpecialization: m.Doctor.Specialization,
		AssignedDate:         m.AssignedDate,
		Status:               m.Status,
		Notes:                m.Notes,
		CreatedByUsername:    m.CreatedBy.Username,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func NewMappingResponses(mappings []models.Mapping) []MappingResponse {
	out := make([]MappingResponse, 0, len(mappings))
	for i := range mappings {
		out = append(out, NewMappingResponse(&mappings[i]))
	}
	return out
}
