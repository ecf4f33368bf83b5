package position

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Position levels run 1 (entry) through 5 (executive).
//
// DepartmentID is nullable: NULL marks a department-independent position such
// as "CEO". Uniqueness is on the (name, department_id) pair.
type Position struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name         string     `gorm:"size:255;not null;uniqueIndex:uq_positions_name_department"`
	Description  string     `gorm:"type:text"`
	Level        int        `gorm:"not null;default:1"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_positions_name_department"`
	IsActive     bool       `gorm:"not null;default:true"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
