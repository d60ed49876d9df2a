package domain

import "time"

// SenderType indicates who authored a message.
type SenderType string

const (
	SenderTypeUser  SenderType = "USER"
	SenderTypeStaff SenderType = "STAFF"
)

// InquiryMessage captures one entry of the customer-visible conversation
// thread. Messages are append-only, ordered by creation time.
type InquiryMessage struct {
	ID         string
	InquiryID  string
	SenderID   string
	SenderType SenderType
	Message    string
	CreatedAt  time.Time
}

// InquiryInternalNote is a staff-only annotation, never shown to the customer
// who filed the inquiry.
type InquiryInternalNote struct {
	ID        string
	InquiryID string
	StaffID   string
	Note      string
	CreatedAt time.Time
}
