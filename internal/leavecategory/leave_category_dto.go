package leavecategory

type CreateLeaveCategoryRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	DefaultMinDays    float64 `json:"default_min_days" binding:"required"`
	DefaultMaxDays    float64 `json:"default_max_days" binding:"required"`
	MaxApprovalLevels int     `json:"max_approval_levels" binding:"required,min=1,max=5"`
}

type UpdateLeaveCategoryRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	DefaultMinDays    float64 `json:"default_min_days" binding:"required"`
	DefaultMaxDays    float64 `json:"default_max_days" binding:"required"`
	MaxApprovalLevels int     `json:"max_approval_levels" binding:"required,min=1,max=5"`
	IsActive          *bool   `json:"is_active"`
}

type LeaveCategoryResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	DefaultMinDays    float64 `json:"default_min_days"`
	DefaultMaxDays    float64 `json:"default_max_days"`
	MaxApprovalLevels int     `json:"max_approval_levels"`
	IsActive          bool    `json:"is_active"`
	IsDefault         bool    `json:"is_default"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type InitializeDefaultsResponse struct {
	Deleted    int                     `json:"deleted"`
	Created    int                     `json:"created"`
	Categories []LeaveCategoryResponse `json:"categories"`
}
