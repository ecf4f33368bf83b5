package leaverequest

type CreateLeaveRequestRequest struct {
	LeaveTypeID string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	Days        float64 `json:"days" binding:"required"`
	Reason      string  `json:"reason"`
}

type DecisionRequest struct {
	Comment string `json:"comment"`
}

type ApprovalDecisionResponse struct {
	Level     int     `json:"level"`
	ActorID   *string `json:"actor_id,omitempty"`
	Decision  string  `json:"decision"`
	Comment   string  `json:"comment,omitempty"`
	DecidedAt string  `json:"decided_at"`
}

type ApprovalLevelStateResponse struct {
	Level    int      `json:"level"`
	Roles    []string `json:"roles"`
	Required bool     `json:"required"`
	Current  bool     `json:"current"`
}

type LeaveRequestResponse struct {
	ID                   string                       `json:"id"`
	UserID               string                       `json:"user_id"`
	LeaveTypeID          string                       `json:"leave_type_id"`
	StartDate            string                       `json:"start_date"`
	EndDate              string                       `json:"end_date"`
	Days                 float64                      `json:"days"`
	Reason               string                       `json:"reason,omitempty"`
	Status               string                       `json:"status"`
	WorkflowID           *string                      `json:"workflow_id,omitempty"`
	WorkflowSource       string                       `json:"workflow_source,omitempty"`
	CurrentApprovalLevel int                          `json:"current_approval_level"`
	Levels               []ApprovalLevelStateResponse `json:"approval_levels"`
	Decisions            []ApprovalDecisionResponse   `json:"decisions,omitempty"`
	CreatedAt            string                       `json:"created_at"`
	UpdatedAt            string                       `json:"updated_at"`
}

type UpsertBalanceRequest struct {
	UserID       string  `json:"user_id" binding:"required,uuid"`
	LeaveTypeID  string  `json:"leave_type_id" binding:"required,uuid"`
	Year         int     `json:"year" binding:"required,min=2000"`
	Balance      float64 `json:"balance" binding:"min=0"`
	CarryForward float64 `json:"carry_forward" binding:"min=0"`
}

type LeaveBalanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	LeaveTypeID  string  `json:"leave_type_id"`
	Year         int     `json:"year"`
	Balance      float64 `json:"balance"`
	CarryForward float64 `json:"carry_forward"`
	Used         float64 `json:"used"`
	PendingDays  float64 `json:"pending_days"`
	Remaining    float64 `json:"remaining"`
}
