package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee   = "employee"
	RoleTeamLead   = "team_lead"
	RoleManager    = "manager"
	RoleHR         = "hr"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User is owned by the external identity service; this module only reads and
// repairs the organizational fields used for approval routing.
//
// DepartmentID/Department and PositionID/Position are deliberately kept as
// id + denormalized name pairs. Either side can be null independently; the
// reconcile passes infer one from the other.
type User struct {
	ID    uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name  string    `gorm:"column:name;type:varchar(255)"`
	Email string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Role  string    `gorm:"column:role;type:varchar(50);not null;default:'employee'"`

	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid;index"`
	Department   *string    `gorm:"column:department;type:varchar(255)"`
	PositionID   *uuid.UUID `gorm:"column:position_id;type:uuid"`
	Position     *string    `gorm:"column:position;type:varchar(255)"`

	// Back-references for approval routing.
	HRID       *uuid.UUID `gorm:"column:hr_id;type:uuid"`
	TeamLeadID *uuid.UUID `gorm:"column:team_lead_id;type:uuid"`
	ManagerID  *uuid.UUID `gorm:"column:manager_id;type:uuid"`

	IsActive  bool           `gorm:"column:is_active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleTeamLead, RoleManager, RoleHR, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
