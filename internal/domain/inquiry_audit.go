package domain

import "time"

// AuditAction identifies the state change an audit entry documents.
type AuditAction string

const (
	AuditActionCreated       AuditAction = "CREATED"
	AuditActionAssigned      AuditAction = "ASSIGNED"
	AuditActionEscalated     AuditAction = "ESCALATED"
	AuditActionStatusChanged AuditAction = "STATUS_CHANGED"
	AuditActionClosed        AuditAction = "CLOSED"
)

// InquiryAudit is an immutable trail entry. One row per state-changing
// operation; rows are never updated or deleted.
type InquiryAudit struct {
	ID                string
	InquiryID         string
	Action            AuditAction
	PerformedByUserID string
	FromDepartmentID  *string
	ToDepartmentID    *string
	CreatedAt         time.Time
}
