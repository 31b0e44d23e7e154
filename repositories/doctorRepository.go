package repositories

import (
	"PatientCare/cache"
	"PatientCare/models"
	"PatientCare/utils"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	doctorsCachePattern = "doctors_cache:*"
	// doctorsCacheGenKey is bumped on every write. Page keys embed it, so a
	// page read before a write is never served after it.
	doctorsCacheGenKey = "doctors_cache_gen"
)

type DoctorRepository struct {
	db       *gorm.DB
	cache    *cache.Cache
	cacheTTL time.Duration
}

// NewDoctorRepository builds the repository. A nil cache disables list caching.
func NewDoctorRepository(db *gorm.DB, cache *cache.Cache, cacheTTL time.Duration) *DoctorRepository {
	return &DoctorRepository{db: db, cache: cache, cacheTTL: cacheTTL}
}

// cachedDoctor keeps the owner next to the doctor since Doctor.CreatedBy is
// not serialized.
type cachedDoctor struct {
	Doctor    models.Doctor  `json:"doctor"`
	CreatedBy models.Account `json:"created_by"`
}

type cachedDoctorPage struct {
	Doctors []cachedDoctor `json:"doctors"`
	Count   int64          `json:"count"`
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(doctor).Error
	if err != nil {
		return translateError(err, "doctor", "create")
	}
	r.invalidate(ctx)
	return nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).Preload("CreatedBy").First(&doctor, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "doctor", "get")
	}
	return &doctor, nil
}

// GetDetail loads the doctor with its patient mappings, newest first.
func (r *DoctorRepository) GetDetail(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("PatientMappings", func(db *gorm.DB) *gorm.DB {
			return db.Order("assigned_date DESC")
		}).
		Preload("PatientMappings.Patient").
		Preload("PatientMappings.Doctor").
		Preload("PatientMappings.CreatedBy").
		First(&doctor, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "doctor", "get")
	}
	return &doctor, nil
}

// ListActive returns one page of active doctors. Pages are cached in redis
// until the next write.
func (r *DoctorRepository) ListActive(ctx context.Context, filter models.DoctorFilter, page utils.PageRequest) ([]models.Doctor, int64, error) {
	gen, cacheable := r.generation(ctx)
	cacheKey := r.getDoctorsCacheKey(gen, filter, page)
	if cacheable {
		if doctors, count, ok := r.fromCache(ctx, cacheKey); ok {
			return doctors, count, nil
		}
	}

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_active = ?", true)
		if filter.Specialization != "" {
			db = db.Where("specialization = ?", filter.Specialization)
		}
		if filter.City != "" {
			db = db.Where("city = ?", filter.City)
		}
		return db
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Doctor{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, translateError(err, "doctor", "count")
	}

	var doctors []models.Doctor
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("CreatedBy").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&doctors).Error
	if err != nil {
		return nil, 0, translateError(err, "doctor", "list")
	}

	if cacheable {
		r.toCache(ctx, cacheKey, doctors, count)
	}
	return doctors, count, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	res := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", doctor.ID).
		Select("*").
		Omit(clause.Associations, "ID", "CreatedAt", "CreatedByID").
		Updates(doctor)
	if res.Error != nil {
		return translateError(res.Error, "doctor", "update")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "doctor", "update")
	}
	r.invalidate(ctx)
	return nil
}

// Delete removes the doctor and its mappings in one transaction.
func (r *DoctorRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", id).Delete(&models.Mapping{}).Error; err != nil {
			return translateError(err, "mapping", "delete")
		}
		res := tx.Delete(&models.Doctor{}, "id = ?", id)
		if res.Error != nil {
			return translateError(res.Error, "doctor", "delete")
		}
		if res.RowsAffected == 0 {
			return translateError(gorm.ErrRecordNotFound, "doctor", "delete")
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *DoctorRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, "email = ? AND id <> ?", email, excludeID)
}

func (r *DoctorRepository) LicenseTaken(ctx context.Context, license string, excludeID uint) (bool, error) {
	return r.taken(ctx, "license_number = ? AND id <> ?", license, excludeID)
}

func (r *DoctorRepository) taken(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).Where(query, args...).Count(&count).Error
	if err != nil {
		return false, translateError(err, "doctor", "count")
	}
	return count > 0, nil
}

func (r *DoctorRepository) fromCache(ctx context.Context, key string) ([]models.Doctor, int64, bool) {
	if r.cache == nil {
		return nil, 0, false
	}
	cached, err := r.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to get doctors from cache")
		return nil, 0, false
	}
	if cached == "" {
		return nil, 0, false
	}

	var page cachedDoctorPage
	if err := json.Unmarshal([]byte(cached), &page); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding malformed doctors cache entry")
		return nil, 0, false
	}
	doctors := make([]models.Doctor, 0, len(page.Doctors))
	for _, entry := range page.Doctors {
		doctor := entry.Doctor
		doctor.CreatedBy = entry.CreatedBy
		doctors = append(doctors, doctor)
	}
	return doctors, page.Count, true
}

func (r *DoctorRepository) toCache(ctx context.Context, key string, doctors []models.Doctor, count int64) {
	if r.cache == nil {
		return
	}
	page := cachedDoctorPage{Doctors: make([]cachedDoctor, 0, len(doctors)), Count: count}
	for _, doctor := range doctors {
		page.Doctors = append(page.Doctors, cachedDoctor{Doctor: doctor, CreatedBy: doctor.CreatedBy})
	}
	data, err := json.Marshal(page)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal doctors for cache")
		return
	}
	if err := r.cache.Set(ctx, key, data, r.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to set doctors in cache")
	}
}

// generation returns the current cache generation. Pages are neither read
// nor written when it cannot be determined.
func (r *DoctorRepository) generation(ctx context.Context) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	gen, err := r.cache.Get(ctx, doctorsCacheGenKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read doctors cache generation")
		return "", false
	}
	if gen == "" {
		gen = "0"
	}
	return gen, true
}

// invalidate drops every cached doctor page. A stale page is only a read
// anomaly, so failures are logged rather than returned.
func (r *DoctorRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if _, err := r.cache.Incr(ctx, doctorsCacheGenKey, 0); err != nil {
		log.Warn().Err(err).Msg("failed to bump doctors cache generation")
	}
	if err := r.cache.DeleteAll(ctx, doctorsCachePattern); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate doctors cache")
	}
}

func (r *DoctorRepository) getDoctorsCacheKey(gen string, filter models.DoctorFilter, page utils.PageRequest) string {
	return fmt.Sprintf("doctors_cache:%s:%s:%s:%d:%d", gen, filter.Specialization, filter.City, page.Page, page.PageSize)
}
