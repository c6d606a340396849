package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousEmail is the sentinel identity stored when a prediction request
// carries no authenticated user.
const AnonymousEmail = "guest"

// Prediction records one classification result. Rows are written exactly once
// per successful classification and never mutated afterwards.
type Prediction struct {
	ID         string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserEmail  string    `json:"-" gorm:"size:255;index;not null"`
	Label      string    `json:"label" gorm:"size:64;not null"`
	Confidence float64   `json:"confidence" gorm:"not null"` // maximum probability, in [0,1]
	CreatedAt  time.Time `json:"createdAt"`
	ImagePath  string    `json:"-" gorm:"size:512;not null"` // relative path under the upload root
}

// BeforeCreate sets the UUID before inserting the record.
func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
