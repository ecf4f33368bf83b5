package department

type CreateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id"`
}

type UpdateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id"`
	IsActive    *bool   `json:"is_active"`
}

type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id,omitempty"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
