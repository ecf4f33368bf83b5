package workflow

type ApprovalLevelRequest struct {
	Level              int      `json:"level" binding:"required,min=1"`
	Roles              []string `json:"roles"`
	ApproverID         *string  `json:"approver_id"`
	ApproverType       string   `json:"approver_type"`
	DepartmentSpecific bool     `json:"department_specific"`
	Required           *bool    `json:"required"`
}

type CreateWorkflowRequest struct {
	Name            string                 `json:"name" binding:"required"`
	Description     string                 `json:"description"`
	MinDays         float64                `json:"min_days" binding:"required"`
	MaxDays         float64                `json:"max_days" binding:"required"`
	Levels          []ApprovalLevelRequest `json:"approval_levels" binding:"required"`
	DepartmentID    *string                `json:"department_id"`
	PositionID      *string                `json:"position_id"`
	LeaveCategoryID *string                `json:"leave_category_id"`
	Category        *string                `json:"category"`
	IsDefault       bool                   `json:"is_default"`
}

type UpdateWorkflowRequest struct {
	Name            string                 `json:"name" binding:"required"`
	Description     string                 `json:"description"`
	MinDays         float64                `json:"min_days" binding:"required"`
	MaxDays         float64                `json:"max_days" binding:"required"`
	Levels          []ApprovalLevelRequest `json:"approval_levels" binding:"required"`
	DepartmentID    *string                `json:"department_id"`
	PositionID      *string                `json:"position_id"`
	LeaveCategoryID *string                `json:"leave_category_id"`
	Category        *string                `json:"category"`
	IsDefault       *bool                  `json:"is_default"`
	IsActive        *bool                  `json:"is_active"`
}

type ApprovalLevelResponse struct {
	Level              int      `json:"level"`
	Roles              []string `json:"roles"`
	ApproverID         *string  `json:"approver_id,omitempty"`
	ApproverType       string   `json:"approver_type,omitempty"`
	DepartmentSpecific bool     `json:"department_specific,omitempty"`
	Required           bool     `json:"required"`
}

type WorkflowResponse struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description,omitempty"`
	MinDays         float64                 `json:"min_days"`
	MaxDays         float64                 `json:"max_days"`
	Levels          []ApprovalLevelResponse `json:"approval_levels"`
	DepartmentID    *string                 `json:"department_id,omitempty"`
	PositionID      *string                 `json:"position_id,omitempty"`
	LeaveCategoryID *string                 `json:"leave_category_id,omitempty"`
	Category        *string                 `json:"category,omitempty"`
	IsDefault       bool                    `json:"is_default"`
	IsActive        bool                    `json:"is_active"`
	CreatedAt       string                  `json:"created_at"`
	UpdatedAt       string                  `json:"updated_at"`
}

type LegacyWorkflowResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	MinDays   float64                 `json:"min_days"`
	MaxDays   float64                 `json:"max_days"`
	Levels    []ApprovalLevelResponse `json:"approval_levels"`
	IsActive  bool                    `json:"is_active"`
	CreatedAt string                  `json:"created_at"`
	UpdatedAt string                  `json:"updated_at"`
}

type InitializeDefaultsResponse struct {
	Deleted   int                `json:"deleted"`
	Created   int                `json:"created"`
	Workflows []WorkflowResponse `json:"workflows"`
}
