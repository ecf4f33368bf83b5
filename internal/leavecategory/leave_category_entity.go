package leavecategory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveCategory is a named day-range band ("Short Leave": 0.5-2 days) used to
// seed workflow creation. Categories referenced by a workflow cannot be
// deleted.
type LeaveCategory struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"size:255;not null;uniqueIndex"`
	Description       string    `gorm:"type:text"`
	DefaultMinDays    float64   `gorm:"not null"`
	DefaultMaxDays    float64   `gorm:"not null"`
	MaxApprovalLevels int       `gorm:"not null;default:1"`
	IsActive          bool      `gorm:"not null;default:true"`
	IsDefault         bool      `gorm:"not null;default:false"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// DefaultCategories is the canonical three-tier band set restored by
// initialize-defaults.
func DefaultCategories() []LeaveCategory {
	return []LeaveCategory{
		{
			ID:                uuid.New(),
			Name:              "Short Leave",
			Description:       "Half-day up to two days",
			DefaultMinDays:    0.5,
			DefaultMaxDays:    2,
			MaxApprovalLevels: 1,
			IsActive:          true,
			IsDefault:         true,
		},
		{
			ID:                uuid.New(),
			Name:              "Medium Leave",
			Description:       "Three to six days",
			DefaultMinDays:    3,
			DefaultMaxDays:    6,
			MaxApprovalLevels: 2,
			IsActive:          true,
			IsDefault:         true,
		},
		{
			ID:                uuid.New(),
			Name:              "Long Leave",
			Description:       "Seven days up to thirty",
			DefaultMinDays:    7,
			DefaultMaxDays:    30,
			MaxApprovalLevels: 3,
			IsActive:          true,
			IsDefault:         true,
		},
	}
}
