package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patient model
type Patient struct {
	ID                    uint       `gorm:"primaryKey;column:id" json:"id"`
	FirstName             string     `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName              string     `gorm:"column:last_name;size:100;not null;index" json:"last_name"`
	Email                 string     `gorm:"column:email;size:254;not null;uniqueIndex:idx_patients_email" json:"email"`
	PhoneNumber           string     `gorm:"column:phone_number;size:17" json:"phone_number"`
	DateOfBirth           Date       `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Gender                Gender     `gorm:"column:gender;size:1;not null;check:chk_patients_gender,gender IN ('M', 'F', 'O')" json:"gender"`
	BloodGroup            BloodGroup `gorm:"column:blood_group;size:3" json:"blood_group"`
	Address               string     `gorm:"column:address;type:text" json:"address"`
	City                  string     `gorm:"column:city;size:100;index" json:"city"`
	State                 string     `gorm:"column:state;size:100" json:"state"`
	ZipCode               string     `gorm:"column:zip_code;size:10" json:"zip_code"`
	Country               string     `gorm:"column:country;size:100;not null" json:"country"`
	EmergencyContactName  string     `gorm:"column:emergency_contact_name;size:100" json:"emergency_contact_name"`
	EmergencyContactPhone string     `gorm:"column:emergency_contact_phone;size:17;not null" json:"emergency_contact_phone"`
	MedicalHistory        string     `gorm:"column:medical_history;type:text" json:"medical_history"`
	Allergies             string     `gorm:"column:allergies;type:text" json:"allergies"`
	CurrentMedications    string     `gorm:"column:current_medications;type:text" json:"current_medications"`
	CreatedByID           uint       `gorm:"column:created_by_id;not null;index" json:"created_by"`
	CreatedBy             Account    `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	IsActive              bool       `gorm:"column:is_active;not null;index" json:"is_active"`
	DoctorMappings        []Mapping  `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Doctor model
type Doctor struct {
	ID                  uint            `gorm:"primaryKey;column:id" json:"id"`
	FirstName           string          `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName            string          `gorm:"column:last_name;size:100;not null;index" json:"last_name"`
	Email               string          `gorm:"column:email;size:254;not null;uniqueIndex:idx_doctors_email" json:"email"`
	PhoneNumber         string          `gorm:"column:phone_number;size:17;not null" json:"phone_number"`
	Specialization      Specialization  `gorm:"column:specialization;size:50;not null;index" json:"specialization"`
	LicenseNumber       string          `gorm:"column:license_number;size:50;not null;uniqueIndex:idx_doctors_license_number" json:"license_number"`
	YearsOfExperience   int             `gorm:"column:years_of_experience;not null;check:chk_doctors_experience,years_of_experience >= 0" json:"years_of_experience"`
	Qualification       string          `gorm:"column:qualification;size:200;not null" json:"qualification"`
	HospitalAffiliation string          `gorm:"column:hospital_affiliation;size:200" json:"hospital_affiliation"`
	OfficeAddress       string          `gorm:"column:office_address;type:text" json:"office_address"`
	City                string          `gorm:"column:city;size:100;index" json:"city"`
	State               string          `gorm:"column:state;size:100" json:"state"`
	ZipCode             string          `gorm:"column:zip_code;size:10" json:"zip_code"`
	Country             string          `gorm:"column:country;size:100;not null" json:"country"`
	ConsultationFee     decimal.Decimal `gorm:"column:consultation_fee;type:numeric(10,2);not null" json:"consultation_fee"`
	Bio                 string          `gorm:"column:bio;type:text" json:"bio"`
	CreatedByID         uint            `gorm:"column:created_by_id;not null;index" json:"created_by"`
	CreatedBy           Account         `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	IsActive            bool            `gorm:"column:is_active;not null;index" json:"is_active"`
	PatientMappings     []Mapping       `gorm:"foreignKey:DoctorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d Doctor) FullName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}

// Mapping assigns one patient to one doctor. A pair may appear only once.
type Mapping struct {
	ID           uint          `gorm:"primaryKey;column:id" json:"id"`
	PatientID    uint          `gorm:"column:patient_id;not null;uniqueIndex:idx_mappings_patient_doctor,priority:1" json:"patient"`
	Patient      Patient       `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	DoctorID     uint          `gorm:"column:doctor_id;not null;uniqueIndex:idx_mappings_patient_doctor,priority:2;index" json:"doctor"`
	Doctor       Doctor        `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedDate time.Time     `gorm:"column:assigned_date;autoCreateTime;index" json:"assigned_date"`
	Status       MappingStatus `gorm:"column:status;size:20;not null;check:chk_mappings_status,status IN ('ACTIVE', 'INACTIVE', 'COMPLETED')" json:"status"`
	Notes        string        `gorm:"column:notes;type:text" json:"notes"`
	CreatedByID  uint          `gorm:"column:created_by_id;not null;index" json:"created_by"`
	CreatedBy    Account       `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Mapping) TableName() string {
	return "patient_doctor_mappings"
}

// PatientFilter narrows a patient listing. Empty fields do not filter.
type PatientFilter struct {
	Gender     Gender
	BloodGroup BloodGroup
	City       string
}

type DoctorFilter struct {
	Specialization Specialization
	City           string
}

type MappingFilter struct {
	Status MappingStatus
}
