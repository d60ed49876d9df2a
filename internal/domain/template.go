package domain

import "time"

// QuickReplyTemplate is a canned staff response. A nil Type means the
// template is usable across all inquiry types.
type QuickReplyTemplate struct {
	ID              string
	Title           string
	Body            string
	Type            *InquiryType
	Tags            []string
	CreatedByUserID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
