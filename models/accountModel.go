package models

import (
	"time"
)

// Account is a user that owns patients, doctors and mappings.
type Account struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex:idx_accounts_username;column:username" json:"username"`
	Email     string    `gorm:"size:254;not null;uniqueIndex:idx_accounts_email;column:email" json:"email"`
	FirstName string    `gorm:"size:150;column:first_name" json:"first_name"`
	LastName  string    `gorm:"size:150;column:last_name" json:"last_name"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	IsActive  bool      `gorm:"not null;column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
