package user

type UserResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id,omitempty"`
	Department   *string `json:"department,omitempty"`
	PositionID   *string `json:"position_id,omitempty"`
	Position     *string `json:"position,omitempty"`
	HRID         *string `json:"hr_id,omitempty"`
	TeamLeadID   *string `json:"team_lead_id,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	IsActive     bool    `json:"is_active"`
}
