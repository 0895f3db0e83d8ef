package models

import "time"

// UserModel is an author account. Login is by email.
type UserModel struct {
	Base
	Email       string     `json:"email"      gorm:"uniqueIndex;not null"`
	FirstName   string     `json:"first_name" gorm:"not null"`
	Surname     string     `json:"surname"    gorm:"not null"`
	Password    string     `json:"-"          gorm:"not null"`
	IsActive    bool       `json:"is_active"  gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func (UserModel) TableName() string { return "users" }

// FullName joins first name and surname for display.
func (u UserModel) FullName() string {
	if u.Surname == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.Surname
}
