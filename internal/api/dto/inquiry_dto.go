package dto

import (
	"time"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// CreateInquiryRequest payload.
type CreateInquiryRequest struct {
	Type     domain.InquiryType     `json:"type"`
	Subject  string                 `json:"subject"`
	Message  string                 `json:"message"`
	Priority domain.InquiryPriority `json:"priority"`
}

// AddMessageRequest payload.
type AddMessageRequest struct {
	Message string `json:"message"`
}

// AddNoteRequest payload.
type AddNoteRequest struct {
	Note string `json:"note"`
}

// AssignRequest payload.
type AssignRequest struct {
	StaffProfileID string `json:"staff_profile_id"`
}

// EscalateRequest payload.
type EscalateRequest struct {
	DepartmentID string `json:"department_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.InquiryStatus `json:"status"`
}

// InquirySummary response.
type InquirySummary struct {
	ID                string                 `json:"id"`
	ReferenceKey      string                 `json:"reference_key"`
	Type              domain.InquiryType     `json:"type"`
	Subject           string                 `json:"subject"`
	Status            domain.InquiryStatus   `json:"status"`
	Priority          domain.InquiryPriority `json:"priority"`
	DepartmentID      string                 `json:"department_id"`
	AssignedToStaffID *string                `json:"assigned_to_staff_id"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// InquiryListResponse is one result page.
type InquiryListResponse struct {
	Items []InquirySummary `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// MessageResponse represents one thread entry.
type MessageResponse struct {
	ID         string            `json:"id"`
	SenderID   string            `json:"sender_id"`
	SenderType domain.SenderType `json:"sender_type"`
	Message    string            `json:"message"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NoteResponse represents one staff annotation.
type NoteResponse struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staff_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// InquiryDetailResponse is an inquiry with its conversation.
type InquiryDetailResponse struct {
	InquirySummary
	Messages      []MessageResponse `json:"messages"`
	InternalNotes []NoteResponse    `json:"internal_notes,omitempty"`
}

// AuditEntryResponse is one row of an inquiry's trail.
type AuditEntryResponse struct {
	ID                string             `json:"id"`
	Action            domain.AuditAction `json:"action"`
	PerformedByUserID string             `json:"performed_by_user_id"`
	FromDepartmentID  *string            `json:"from_department_id,omitempty"`
	ToDepartmentID    *string            `json:"to_department_id,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// InquirySummaryFromDomain maps an inquiry to its summary view.
func InquirySummaryFromDomain(inquiry *domain.Inquiry) InquirySummary {
	return InquirySummary{
		ID:                inquiry.ID,
		ReferenceKey:      inquiry.ReferenceKey,
		Type:              inquiry.Type,
		Subject:           inquiry.Subject,
		Status:            inquiry.Status,
		Priority:          inquiry.Priority,
		DepartmentID:      inquiry.DepartmentID,
		AssignedToStaffID: inquiry.AssignedToStaffID,
		CreatedAt:         inquiry.CreatedAt,
		UpdatedAt:         inquiry.UpdatedAt,
	}
}

// MessageFromDomain maps a thread message.
func MessageFromDomain(msg *domain.InquiryMessage) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		SenderType: msg.SenderType,
		Message:    msg.Message,
		CreatedAt:  msg.CreatedAt,
	}
}

// NoteFromDomain maps an internal note.
func NoteFromDomain(note *domain.InquiryInternalNote) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		StaffID:   note.StaffID,
		Note:      note.Note,
		CreatedAt: note.CreatedAt,
	}
}

// AuditFromDomain maps an audit row.
func AuditFromDomain(entry *domain.InquiryAudit) AuditEntryResponse {
	return AuditEntryResponse{
		ID:                entry.ID,
		Action:            entry.Action,
		PerformedByUserID: entry.PerformedByUserID,
		FromDepartmentID:  entry.FromDepartmentID,
		ToDepartmentID:    entry.ToDepartmentID,
		CreatedAt:         entry.CreatedAt,
	}
}
