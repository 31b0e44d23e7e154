package repositories

import (
	"PatientCare/models"
	"PatientCare/utils"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MappingRepository struct {
	db *gorm.DB
}

func NewMappingRepository(db *gorm.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Patient").Preload("Doctor").Preload("CreatedBy")
}

// Create inserts the mapping. The unique (patient_id, doctor_id) index turns
// a concurrent duplicate into a DuplicateMapping error.
func (r *MappingRepository) Create(ctx context.Context, mapping *models.Mapping) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(mapping).Error
	return translateError(err, "mapping", "create")
}

func (r *MappingRepository) GetByID(ctx context.Context, id uint) (*models.Mapping, error) {
	var mapping models.Mapping
	err := r.db.WithContext(ctx).Scopes(withRelations).First(&mapping, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "mapping", "get")
	}
	return &mapping, nil
}

func (r *MappingRepository) List(ctx context.Context, filter models.MappingFilter, page utils.PageRequest) ([]models.Mapping, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Mapping{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, translateError(err, "mapping", "count")
	}

	var mappings []models.Mapping
	err := r.db.WithContext(ctx).
		Scopes(scope, withRelations).
		Order("assigned_date DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&mappings).Error
	if err != nil {
		return nil, 0, translateError(err, "mapping", "list")
	}
	return mappings, count, nil
}

func (r *MappingRepository) ListByPatient(ctx context.Context, patientID uint) ([]models.Mapping, error) {
	var mappings []models.Mapping
	err := r.db.WithContext(ctx).
		Scopes(withRelations).
		Where("patient_id = ?", patientID).
		Order("assigned_date DESC").
		Find(&mappings).Error
	if err != nil {
		return nil, translateError(err, "mapping", "list")
	}
	return mappings, nil
}

// PairExists reports whether a mapping other than excludeID already links
// the patient to the doctor.
func (r *MappingRepository) PairExists(ctx context.Context, patientID, doctorID, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Mapping{}).
		Where("patient_id = ? AND doctor_id = ? AND id <> ?", patientID, doctorID, excludeID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "mapping", "count")
	}
	return count > 0, nil
}

// Update writes the mapping's columns. assigned_date is fixed at creation, and
// a mapping deleted since it was loaded is reported as not found.
func (r *MappingRepository) Update(ctx context.Context, mapping *models.Mapping) error {
	res := r.db.WithContext(ctx).
		Model(&models.Mapping{}).
		Where("id = ?", mapping.ID).
		Select("*").
		Omit(clause.Associations, "ID", "AssignedDate", "CreatedAt", "CreatedByID").
		Updates(mapping)
	if res.Error != nil {
		return translateError(res.Error, "mapping", "update")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "mapping", "update")
	}
	return nil
}

func (r *MappingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Mapping{}, "id = ?", id)
	if res.Error != nil {
		return translateError(res.Error, "mapping", "delete")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "mapping", "delete")
	}
	return nil
}
