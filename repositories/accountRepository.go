package repositories

import (
	"PatientCare/models"
	"context"

	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return translateError(r.db.WithContext(ctx).Create(account).Error, "account", "create")
}

func (r *AccountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *AccountRepository) first(ctx context.Context, query string, args ...interface{}) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where(query, args...).First(&account).Error; err != nil {
		return nil, translateError(err, "account", "get")
	}
	return &account, nil
}

func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *AccountRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where(query, args...).Count(&count).Error
	if err != nil {
		return false, translateError(err, "account", "count")
	}
	return count > 0, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	res := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Update("password", hashedPassword)
	if res.Error != nil {
		return translateError(res.Error, "account", "update")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "account", "update")
	}
	return nil
}
