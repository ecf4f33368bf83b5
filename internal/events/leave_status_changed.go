package events

import "time"

// TopicLeaveRequestStatus carries every leave request status transition
// (submitted, approved per level, rejected, cancelled). Consumed by the
// audit consumer.
const TopicLeaveRequestStatus = "leave.request.status.v1"

const (
	LeaveRequestSubmitted = "leave_request.submitted"
	LeaveRequestApproved  = "leave_request.approved"
	LeaveRequestRejected  = "leave_request.rejected"
	LeaveRequestCancelled = "leave_request.cancelled"
)

type LeaveRequestStatusChanged struct {
	// EventID is the outbox event id. Consumers dedup redeliveries on it.
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	UserID        string    `json:"user_id"`
	ActorID       string    `json:"actor_id"`
	Status        string    `json:"status"`
	Level         int       `json:"level"`
	Days          float64   `json:"days"`
	WorkflowID    string    `json:"workflow_id,omitempty"`
	SkippedLevels []int     `json:"skipped_levels,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
