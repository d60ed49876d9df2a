package domain

import "time"

// NotificationKind classifies outgoing notification requests.
type NotificationKind string

const (
	NotificationInquiryCreated   NotificationKind = "INQUIRY_CREATED"
	NotificationInquiryMessage   NotificationKind = "INQUIRY_MESSAGE"
	NotificationInquiryAssigned  NotificationKind = "INQUIRY_ASSIGNED"
	NotificationInquiryEscalated NotificationKind = "INQUIRY_ESCALATED"
)

// NotificationRequest is a durable record that user X should be told about
// something. Rows are written inside the transaction of the mutation that
// triggered them; delivery happens later, off the outbox.
type NotificationRequest struct {
	ID           string
	UserID       string
	DepartmentID *string
	Kind         NotificationKind
	Title        string
	Message      string
	Link         string
	CreatedAt    time.Time
	DispatchedAt *time.Time
}
