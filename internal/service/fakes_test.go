package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
)

// passthroughTxRunner runs the callback directly; the in-memory fakes have
// no transactional state to manage.
type passthroughTxRunner struct{}

func (passthroughTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeInquiryRepo struct {
	seq       int
	inquiries map[string]*domain.Inquiry
	audits    *fakeAuditRepo
}

func newFakeInquiryRepo(audits *fakeAuditRepo) *fakeInquiryRepo {
	return &fakeInquiryRepo{inquiries: map[string]*domain.Inquiry{}, audits: audits}
}

func (f *fakeInquiryRepo) Create(_ context.Context, inquiry *domain.Inquiry) error {
	f.seq++
	inquiry.ID = fmt.Sprintf("inq-%d", f.seq)
	inquiry.CreatedAt = time.Now()
	inquiry.UpdatedAt = inquiry.CreatedAt
	clone := *inquiry
	f.inquiries[inquiry.ID] = &clone
	return nil
}

func (f *fakeInquiryRepo) Update(_ context.Context, inquiry *domain.Inquiry) error {
	if _, ok := f.inquiries[inquiry.ID]; !ok {
		return pgx.ErrNoRows
	}
	inquiry.UpdatedAt = time.Now()
	clone := *inquiry
	f.inquiries[inquiry.ID] = &clone
	return nil
}

func (f *fakeInquiryRepo) GetByID(_ context.Context, id string) (*domain.Inquiry, error) {
	inquiry, ok := f.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *inquiry
	return &clone, nil
}

func (f *fakeInquiryRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Inquiry, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeInquiryRepo) List(_ context.Context, filter repository.InquiryFilter) ([]domain.Inquiry, int64, error) {
	var items []domain.Inquiry
	for _, inquiry := range f.inquiries {
		if !f.matches(inquiry, filter) {
			continue
		}
		items = append(items, *inquiry)
	}
	return items, int64(len(items)), nil
}

func (f *fakeInquiryRepo) matches(inquiry *domain.Inquiry, filter repository.InquiryFilter) bool {
	if filter.CreatedByUserID != nil && inquiry.CreatedByUserID != *filter.CreatedByUserID {
		return false
	}
	if filter.AssignedToStaffID != nil {
		if inquiry.AssignedToStaffID == nil || *inquiry.AssignedToStaffID != *filter.AssignedToStaffID {
			return false
		}
	}
	if filter.DepartmentID != nil && inquiry.DepartmentID != *filter.DepartmentID {
		if !filter.IncludeEscalatedFrom || !f.audits.escalatedFrom(inquiry.ID, *filter.DepartmentID) {
			return false
		}
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, inquiry.Status) {
		return false
	}
	if filter.SubjectQuery != nil && !strings.Contains(strings.ToLower(inquiry.Subject), strings.ToLower(*filter.SubjectQuery)) {
		return false
	}
	return true
}

func (f *fakeInquiryRepo) CountByStatus(_ context.Context, since time.Time) (map[domain.InquiryStatus]int64, error) {
	counts := make(map[domain.InquiryStatus]int64)
	for _, inquiry := range f.inquiries {
		if inquiry.CreatedAt.Before(since) {
			continue
		}
		counts[inquiry.Status]++
	}
	return counts, nil
}

func (f *fakeInquiryRepo) CountUnassignedOpen(_ context.Context, since time.Time) (int64, error) {
	var count int64
	for _, inquiry := range f.inquiries {
		if inquiry.Status == domain.InquiryStatusOpen && inquiry.AssignedToStaffID == nil && !inquiry.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeInquiryRepo) StaffPerformance(_ context.Context, _ time.Time) ([]repository.StaffPerformanceRow, error) {
	return nil, nil
}

func containsStatus(statuses []domain.InquiryStatus, status domain.InquiryStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeMessageRepo struct {
	seq      int
	messages []domain.InquiryMessage
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *domain.InquiryMessage) error {
	f.seq++
	msg.ID = fmt.Sprintf("msg-%d", f.seq)
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) ListByInquiry(_ context.Context, inquiryID string) ([]domain.InquiryMessage, error) {
	var out []domain.InquiryMessage
	for _, msg := range f.messages {
		if msg.InquiryID == inquiryID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeNoteRepo struct {
	seq   int
	notes []domain.InquiryInternalNote
}

func (f *fakeNoteRepo) Create(_ context.Context, note *domain.InquiryInternalNote) error {
	f.seq++
	note.ID = fmt.Sprintf("note-%d", f.seq)
	note.CreatedAt = time.Now()
	f.notes = append(f.notes, *note)
	return nil
}

func (f *fakeNoteRepo) ListByInquiry(_ context.Context, inquiryID string) ([]domain.InquiryInternalNote, error) {
	var out []domain.InquiryInternalNote
	for _, note := range f.notes {
		if note.InquiryID == inquiryID {
			out = append(out, note)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	seq     int
	entries []domain.InquiryAudit
}

func (f *fakeAuditRepo) Create(_ context.Context, audit *domain.InquiryAudit) error {
	f.seq++
	audit.ID = fmt.Sprintf("aud-%d", f.seq)
	audit.CreatedAt = time.Now()
	f.entries = append(f.entries, *audit)
	return nil
}

func (f *fakeAuditRepo) ListByInquiry(_ context.Context, inquiryID string) ([]domain.InquiryAudit, error) {
	var out []domain.InquiryAudit
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].InquiryID == inquiryID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) HasEscalationFrom(_ context.Context, inquiryID, departmentID string) (bool, error) {
	return f.escalatedFrom(inquiryID, departmentID), nil
}

func (f *fakeAuditRepo) escalatedFrom(inquiryID, departmentID string) bool {
	for _, entry := range f.entries {
		if entry.InquiryID == inquiryID &&
			entry.Action == domain.AuditActionEscalated &&
			entry.FromDepartmentID != nil && *entry.FromDepartmentID == departmentID {
			return true
		}
	}
	return false
}

func (f *fakeAuditRepo) forInquiry(inquiryID string) []domain.InquiryAudit {
	var out []domain.InquiryAudit
	for _, entry := range f.entries {
		if entry.InquiryID == inquiryID {
			out = append(out, entry)
		}
	}
	return out
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	if dept, ok := f.departments[id]; ok {
		clone := *dept
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDepartmentRepo) GetByCode(_ context.Context, code string) (*domain.Department, error) {
	for _, dept := range f.departments {
		if dept.Code == code {
			clone := *dept
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDepartmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, dept := range f.departments {
		if dept.IsActive {
			out = append(out, *dept)
		}
	}
	return out, nil
}

type fakeStaffRepo struct {
	profiles map[string]*domain.StaffProfile
}

func (f *fakeStaffRepo) GetProfileByID(_ context.Context, id string) (*domain.StaffProfile, error) {
	if profile, ok := f.profiles[id]; ok {
		clone := *profile
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) GetActiveProfileByUser(_ context.Context, userID string) (*domain.StaffProfile, error) {
	for _, profile := range f.profiles {
		if profile.UserID == userID && profile.Status == domain.StaffProfileActive {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) ListActiveProfilesByDepartment(_ context.Context, departmentID string) ([]domain.StaffProfile, error) {
	var out []domain.StaffProfile
	for _, profile := range f.profiles {
		if profile.DepartmentID == departmentID && profile.Status == domain.StaffProfileActive {
			out = append(out, *profile)
		}
	}
	return out, nil
}

func (f *fakeStaffRepo) ListActiveGrantsByUser(_ context.Context, _ string, _ time.Time) ([]domain.RoleGrant, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	seq     int
	pending []domain.NotificationRequest
}

func (f *fakeOutboxRepo) Enqueue(_ context.Context, req *domain.NotificationRequest) error {
	f.seq++
	req.ID = fmt.Sprintf("out-%d", f.seq)
	req.CreatedAt = time.Now()
	f.pending = append(f.pending, *req)
	return nil
}

func (f *fakeOutboxRepo) ListPending(_ context.Context, limit int) ([]domain.NotificationRequest, error) {
	var out []domain.NotificationRequest
	for _, req := range f.pending {
		if req.DispatchedAt != nil {
			continue
		}
		out = append(out, req)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) MarkDispatched(_ context.Context, ids []string) error {
	now := time.Now()
	for i := range f.pending {
		for _, id := range ids {
			if f.pending[i].ID == id {
				f.pending[i].DispatchedAt = &now
			}
		}
	}
	return nil
}

func (f *fakeOutboxRepo) forUser(userID string) []domain.NotificationRequest {
	var out []domain.NotificationRequest
	for _, req := range f.pending {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out
}
