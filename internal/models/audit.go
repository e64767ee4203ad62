package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionApprove        = "APPLICATION_APPROVE"
	AuditActionReject         = "APPLICATION_REJECT"
	AuditActionEditDetails    = "APPLICATION_EDIT"
	AuditActionEditEvents     = "EVENTS_EDIT"
	AuditActionMoveToRejected = "MOVE_TO_REJECTED"
	AuditActionFinalApproval  = "FINAL_APPROVAL"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *int64    `db:"user_id" json:"user_id,omitempty"`
	CollegeID  *int64    `db:"college_id" json:"college_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *int64    `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
