package department

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Department struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"size:255;not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	ManagerID   *uuid.UUID `gorm:"type:uuid"`
	IsActive    bool       `gorm:"not null;default:true"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
