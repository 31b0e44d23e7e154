package services

import (
	"PatientCare/models"
	"PatientCare/utils"
	"context"
	"time"
)

// Stores return *apperrors.Error values for missing rows and uniqueness
// breaches, and plain errors for storage failures.

type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
}

type PatientStore interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id uint) (*models.Patient, error)
	GetDetail(ctx context.Context, id uint) (*models.Patient, error)
	ListActiveByOwner(ctx context.Context, ownerID uint, filter models.PatientFilter, page utils.PageRequest) ([]models.Patient, int64, error)
	Update(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, id uint) error
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

type DoctorStore interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id uint) (*models.Doctor, error)
	GetDetail(ctx context.Context, id uint) (*models.Doctor, error)
	ListActive(ctx context.Context, filter models.DoctorFilter, page utils.PageRequest) ([]models.Doctor, int64, error)
	Update(ctx context.Context, doctor *models.Doctor) error
	Delete(ctx context.Context, id uint) error
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	LicenseTaken(ctx context.Context, license string, excludeID uint) (bool, error)
}

type MappingStore interface {
	Create(ctx context.Context, mapping *models.Mapping) error
	GetByID(ctx context.Context, id uint) (*models.Mapping, error)
	List(ctx context.Context, filter models.MappingFilter, page utils.PageRequest) ([]models.Mapping, int64, error)
	ListByPatient(ctx context.Context, patientID uint) ([]models.Mapping, error)
	PairExists(ctx context.Context, patientID, doctorID, excludeID uint) (bool, error)
	Update(ctx context.Context, mapping *models.Mapping) error
	Delete(ctx context.Context, id uint) error
}

// KeyValueStore holds short-lived values such as reset codes and revoked
// refresh tokens. Get returns "" for a missing key. Incr creates a missing
// counter with the given expiration.
type KeyValueStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

type ResetMailer interface {
	SendResetCode(to, code string) error
}
