package domain

import "time"

// Department represents an operational unit that owns inquiries. The
// catalog's permission keys reference departments by Code prefix
// (e.g. "support", "finance").
type Department struct {
	ID          string
	Code        string
	Name        string
	Description string
	IsActive    bool
	// CanViewAllDepartments grants this department's staff cross-department
	// read visibility, replacing any code-string special case.
	CanViewAllDepartments bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
