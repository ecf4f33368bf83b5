package position

type CreatePositionRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Level        int     `json:"level" binding:"required,min=1,max=5"`
	DepartmentID *string `json:"department_id"`
}

type UpdatePositionRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Level        int     `json:"level" binding:"required,min=1,max=5"`
	DepartmentID *string `json:"department_id"`
	IsActive     *bool   `json:"is_active"`
}

type PositionResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Level        int     `json:"level"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
