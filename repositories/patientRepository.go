package repositories

import (
	"PatientCare/models"
	"PatientCare/utils"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(patient).Error
	return translateError(err, "patient", "create")
}

func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).Preload("CreatedBy").First(&patient, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "patient", "get")
	}
	return &patient, nil
}

// GetDetail loads the patient with its doctor mappings, newest first.
func (r *PatientRepository) GetDetail(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("DoctorMappings", func(db *gorm.DB) *gorm.DB {
			return db.Order("assigned_date DESC")
		}).
		Preload("DoctorMappings.Patient").
		Preload("DoctorMappings.Doctor").
		Preload("DoctorMappings.CreatedBy").
		First(&patient, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "patient", "get")
	}
	return &patient, nil
}

// ListActiveByOwner returns one page of the owner's active patients and the
// total number matching the filter.
func (r *PatientRepository) ListActiveByOwner(ctx context.Context, ownerID uint, filter models.PatientFilter, page utils.PageRequest) ([]models.Patient, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("created_by_id = ? AND is_active = ?", ownerID, true)
		if filter.Gender != "" {
			db = db.Where("gender = ?", filter.Gender)
		}
		if filter.BloodGroup != "" {
			db = db.Where("blood_group = ?", filter.BloodGroup)
		}
		if filter.City != "" {
			db = db.Where("city = ?", filter.City)
		}
		return db
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Patient{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, translateError(err, "patient", "count")
	}

	var patients []models.Patient
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("CreatedBy").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&patients).Error
	if err != nil {
		return nil, 0, translateError(err, "patient", "list")
	}
	return patients, count, nil
}

// Update writes every column of an existing patient, zero values included.
// A patient deleted since it was loaded is reported as not found.
func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	res := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ?", patient.ID).
		Select("*").
		Omit(clause.Associations, "ID", "CreatedAt", "CreatedByID").
		Updates(patient)
	if res.Error != nil {
		return translateError(res.Error, "patient", "update")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "patient", "update")
	}
	return nil
}

// Delete removes the patient and its mappings in one transaction.
func (r *PatientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ?", id).Delete(&models.Mapping{}).Error; err != nil {
			return translateError(err, "mapping", "delete")
		}
		res := tx.Delete(&models.Patient{}, "id = ?", id)
		if res.Error != nil {
			return translateError(res.Error, "patient", "delete")
		}
		if res.RowsAffected == 0 {
			return translateError(gorm.ErrRecordNotFound, "patient", "delete")
		}
		return nil
	})
}

// EmailTaken reports whether another patient already uses email.
func (r *PatientRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "patient", "count")
	}
	return count > 0, nil
}
