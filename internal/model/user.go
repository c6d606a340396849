package model

import "time"

// User represents a registered account.
type User struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	FirstName    string    `json:"firstName" gorm:"size:255;not null"`
	LastName     string    `json:"lastName" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Gender       string    `json:"gender,omitempty" gorm:"size:32"`
	Phone        string    `json:"phone,omitempty" gorm:"size:32"`
	ProfileImage string    `json:"-" gorm:"size:512"` // relative path under the upload root
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
