package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/accesscontrol"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

// InquiryService drives the inquiry lifecycle: creation, messaging,
// assignment, cross-department escalation, status transitions and the
// append-only audit trail. Every operation is gated by the scope the
// caller's ActorContext resolves to.
type InquiryService struct {
	tx          repository.TxRunner
	inquiries   repository.InquiryRepository
	messages    repository.MessageRepository
	notes       repository.NoteRepository
	audits      repository.AuditRepository
	departments repository.DepartmentRepository
	staff       repository.StaffRepository
	outbox      repository.OutboxRepository
	logger      *zap.Logger
	intakeCode  string
	now         func() time.Time
}

// InquiryDependencies bundles collaborators for the service.
type InquiryDependencies struct {
	Tx             repository.TxRunner
	InquiryRepo    repository.InquiryRepository
	MessageRepo    repository.MessageRepository
	NoteRepo       repository.NoteRepository
	AuditRepo      repository.AuditRepository
	DepartmentRepo repository.DepartmentRepository
	StaffRepo      repository.StaffRepository
	OutboxRepo     repository.OutboxRepository
	Logger         *zap.Logger
	IntakeCode     string
}

// NewInquiryService constructs the service.
func NewInquiryService(deps InquiryDependencies) *InquiryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	intake := deps.IntakeCode
	if intake == "" {
		intake = "SUPPORT"
	}
	return &InquiryService{
		tx:          deps.Tx,
		inquiries:   deps.InquiryRepo,
		messages:    deps.MessageRepo,
		notes:       deps.NoteRepo,
		audits:      deps.AuditRepo,
		departments: deps.DepartmentRepo,
		staff:       deps.StaffRepo,
		outbox:      deps.OutboxRepo,
		logger:      logger,
		intakeCode:  intake,
		now:         time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *InquiryService) WithClock(now func() time.Time) *InquiryService {
	s.now = now
	return s
}

// InquiryCreateInput describes inquiry creation payload.
type InquiryCreateInput struct {
	Type     domain.InquiryType
	Subject  string
	Message  string
	Priority domain.InquiryPriority
}

// InquiryListInput describes listing filters.
type InquiryListInput struct {
	Statuses     []domain.InquiryStatus
	Types        []domain.InquiryType
	Priorities   []domain.InquiryPriority
	SubjectQuery *string
	Page         int
	Limit        int
}

// InquiryPage is one page of listing results.
type InquiryPage struct {
	Items []domain.Inquiry
	Total int64
	Page  int
	Limit int
}

// InquiryDetail is a single inquiry with its conversation. InternalNotes is
// populated only for staff and bypass actors.
type InquiryDetail struct {
	Inquiry       domain.Inquiry
	Messages      []domain.InquiryMessage
	InternalNotes []domain.InquiryInternalNote
}

// OverviewTotals groups inquiry counts by reporting bucket.
type OverviewTotals struct {
	Total      int64
	Unresolved int64
	Solved     int64
	Unchecked  int64
	InCharge   int64
}

// Overview is the bypass-only aggregate report.
type Overview struct {
	Totals           OverviewTotals
	StaffPerformance []repository.StaffPerformanceRow
}

// CreateInquiry files a new inquiry into the intake department. The first
// message, the CREATED audit row and the intake notifications commit
// atomically with the inquiry itself.
func (s *InquiryService) CreateInquiry(ctx context.Context, actor accesscontrol.ActorContext, input InquiryCreateInput) (*domain.Inquiry, error) {
	if !actor.Has(accesscontrol.PermInquiriesCreate) {
		return nil, apperrors.NewForbidden("inquiry creation not permitted")
	}
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if subject == "" || message == "" {
		return nil, apperrors.NewValidationError("subject and message required", nil)
	}
	if !domain.ValidType(input.Type) {
		return nil, apperrors.NewValidationError("unknown inquiry type", map[string]any{"type": input.Type})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.InquiryPriorityMedium
	}

	intake, err := s.departments.GetByCode(ctx, s.intakeCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("intake department", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !intake.IsActive {
		return nil, apperrors.NewNotFound("intake department", nil)
	}

	inquiry := &domain.Inquiry{
		ReferenceKey:    generateReferenceKey(),
		Type:            input.Type,
		Subject:         subject,
		Status:          domain.InquiryStatusOpen,
		Priority:        priority,
		DepartmentID:    intake.ID,
		CreatedByUserID: actor.UserID,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.inquiries.Create(ctx, inquiry); err != nil {
			return err
		}
		msg := &domain.InquiryMessage{
			InquiryID:  inquiry.ID,
			SenderID:   actor.UserID,
			SenderType: domain.SenderTypeUser,
			Message:    message,
		}
		if err := s.messages.Create(ctx, msg); err != nil {
			return err
		}
		if err := s.recordAudit(ctx, inquiry.ID, domain.AuditActionCreated, actor.UserID, nil, nil); err != nil {
			return err
		}
		return s.enqueueDepartmentNotice(ctx, intake.ID, domain.NotificationInquiryCreated,
			"New inquiry", fmt.Sprintf("New %s inquiry: %s", strings.ToLower(string(inquiry.Type)), subject),
			inquiryLink(inquiry.ID))
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("inquiry created",
		zap.String("inquiry_id", inquiry.ID),
		zap.String("reference_key", inquiry.ReferenceKey),
		zap.String("created_by", actor.UserID))
	return inquiry, nil
}

// ListInquiries returns the page of inquiries visible under the actor's
// resolved scope.
func (s *InquiryService) ListInquiries(ctx context.Context, actor accesscontrol.ActorContext, input InquiryListInput) (*InquiryPage, error) {
	scope, err := accesscontrol.BuildInquiryScope(actor)
	if err != nil {
		return nil, err
	}

	page := input.Page
	if page <= 0 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filter := repository.InquiryFilter{
		Statuses:     input.Statuses,
		Types:        input.Types,
		Priorities:   input.Priorities,
		SubjectQuery: input.SubjectQuery,
		Limit:        limit,
		Offset:       (page - 1) * limit,
	}
	switch scope.Type {
	case accesscontrol.ScopeGlobal:
		// no filter
	case accesscontrol.ScopeDepartment:
		if !scope.ViewAllDepartments {
			deptID := scope.DepartmentID
			filter.DepartmentID = &deptID
			filter.IncludeEscalatedFrom = true
		}
	case accesscontrol.ScopeAssignedOnly:
		staffID := scope.StaffProfileID
		filter.AssignedToStaffID = &staffID
	case accesscontrol.ScopeSelfOnly:
		userID := scope.UserID
		filter.CreatedByUserID = &userID
	}

	items, total, err := s.inquiries.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &InquiryPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// GetInquiry fetches a single inquiry with its conversation. Internal notes
// are stripped unless the actor is staff or bypass. An inquiry the scope
// cannot reach reports NotFound, never confirming its existence.
func (s *InquiryService) GetInquiry(ctx context.Context, actor accesscontrol.ActorContext, inquiryID string) (*InquiryDetail, error) {
	inquiry, err := s.getVisible(ctx, actor, inquiryID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByInquiry(ctx, inquiry.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	detail := &InquiryDetail{Inquiry: *inquiry, Messages: msgs}
	if actor.IsBypass() || actor.IsStaff() {
		notes, err := s.notes.ListByInquiry(ctx, inquiry.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		detail.InternalNotes = notes
	}
	return detail, nil
}

// AddMessage appends a message to the inquiry thread. A first staff touch on
// an unassigned inquiry takes it over; a first message on an OPEN or
// ASSIGNED inquiry moves it to IN_PROGRESS. The concurrent-reply race is
// settled by the row lock: the first committed writer wins the
// auto-assignment and later writers observe it.
func (s *InquiryService) AddMessage(ctx context.Context, actor accesscontrol.ActorContext, inquiryID, message string) (*domain.Inquiry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	staffCapable := actor.HasAny(accesscontrol.ReplyClassKeys()...) && (actor.IsBypass() || actor.IsStaff())
	if !staffCapable && !actor.Has(accesscontrol.PermInquiriesView) {
		return nil, apperrors.NewForbidden("messaging not permitted")
	}

	var result *domain.Inquiry
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		inquiry, err := s.lockInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}
		if staffCapable {
			result, err = s.addStaffMessage(ctx, actor, inquiry, message)
			return err
		}
		result, err = s.addCustomerMessage(ctx, actor, inquiry, message)
		return err
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (s *InquiryService) addCustomerMessage(ctx context.Context, actor accesscontrol.ActorContext, inquiry *domain.Inquiry, message string) (*domain.Inquiry, error) {
	if inquiry.CreatedByUserID != actor.UserID {
		return nil, apperrors.NewNotFound("inquiry", nil)
	}
	msg := &domain.InquiryMessage{
		InquiryID:  inquiry.ID,
		SenderID:   actor.UserID,
		SenderType: domain.SenderTypeUser,
		Message:    message,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if next := domain.NextStatusOnMessage(inquiry.Status, domain.SenderTypeUser); next != inquiry.Status {
		inquiry.Status = next
		if err := s.inquiries.Update(ctx, inquiry); err != nil {
			return nil, err
		}
	}

	title := "Customer reply"
	body := fmt.Sprintf("New message on inquiry %s", inquiry.ReferenceKey)
	if inquiry.AssignedToStaffID != nil {
		assignee, err := s.staff.GetProfileByID(ctx, *inquiry.AssignedToStaffID)
		if err != nil {
			return nil, err
		}
		if err := s.enqueueUserNotice(ctx, assignee.UserID, nil, domain.NotificationInquiryMessage, title, body, inquiryLink(inquiry.ID)); err != nil {
			return nil, err
		}
	} else if err := s.enqueueDepartmentNotice(ctx, inquiry.DepartmentID, domain.NotificationInquiryMessage, title, body, inquiryLink(inquiry.ID)); err != nil {
		return nil, err
	}
	return inquiry, nil
}

func (s *InquiryService) addStaffMessage(ctx context.Context, actor accesscontrol.ActorContext, inquiry *domain.Inquiry, message string) (*domain.Inquiry, error) {
	if !actor.IsBypass() {
		reachable, err := s.departmentReachable(ctx, actor, inquiry)
		if err != nil {
			return nil, err
		}
		if !reachable {
			return nil, apperrors.NewNotFound("inquiry", nil)
		}
	}
	if s.holdsOnlyNarrowReply(actor) {
		if actor.StaffProfileID == nil || inquiry.AssignedToStaffID == nil || *inquiry.AssignedToStaffID != *actor.StaffProfileID {
			return nil, apperrors.NewForbidden("reply limited to assigned inquiries")
		}
	}

	changed := false
	if inquiry.AssignedToStaffID == nil && actor.StaffProfileID != nil && domain.ShouldAutoAssign(inquiry.Status) {
		inquiry.AssignedToStaffID = actor.StaffProfileID
		changed = true
		if err := s.recordAudit(ctx, inquiry.ID, domain.AuditActionAssigned, actor.UserID, nil, nil); err != nil {
			return nil, err
		}
	}

	msg := &domain.InquiryMessage{
		InquiryID:  inquiry.ID,
		SenderID:   actor.UserID,
		SenderType: domain.SenderTypeStaff,
		Message:    message,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if next := domain.NextStatusOnMessage(inquiry.Status, domain.SenderTypeStaff); next != inquiry.Status {
		inquiry.Status = next
		changed = true
	}
	if changed {
		if err := s.inquiries.Update(ctx, inquiry); err != nil {
			return nil, err
		}
	}

	if err := s.enqueueUserNotice(ctx, inquiry.CreatedByUserID, nil, domain.NotificationInquiryMessage,
		"Support reply", fmt.Sprintf("Your inquiry %s has a new reply", inquiry.ReferenceKey), inquiryLink(inquiry.ID)); err != nil {
		return nil, err
	}
	return inquiry, nil
}

// AddInternalNote records a staff-only annotation. Notes never transition
// status and never notify the customer.
func (s *InquiryService) AddInternalNote(ctx context.Context, actor accesscontrol.ActorContext, inquiryID, note string) (*domain.InquiryInternalNote, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, apperrors.NewValidationError("note required", nil)
	}
	if !actor.IsBypass() && !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff context required")
	}
	if !actor.IsBypass() && !actor.HasAny(accesscontrol.StaffActionKeys()...) {
		return nil, apperrors.NewForbidden("no staff capability for notes")
	}

	inquiry, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("inquiry", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !actor.IsBypass() {
		reachable, err := s.departmentReachable(ctx, actor, inquiry)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !reachable {
			return nil, apperrors.NewNotFound("inquiry", nil)
		}
	}

	authorID := actor.UserID
	if actor.StaffProfileID != nil {
		authorID = *actor.StaffProfileID
	}
	record := &domain.InquiryInternalNote{
		InquiryID: inquiry.ID,
		StaffID:   authorID,
		Note:      note,
	}
	if err := s.notes.Create(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// AssignInquiry hands the inquiry to a staff member of its own department.
func (s *InquiryService) AssignInquiry(ctx context.Context, actor accesscontrol.ActorContext, inquiryID, staffProfileID string) (*domain.Inquiry, error) {
	if !actor.IsBypass() && !actor.HasAny(accesscontrol.AssignClassKeys()...) {
		return nil, apperrors.NewForbidden("assignment not permitted")
	}

	var result *domain.Inquiry
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		inquiry, err := s.lockInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}
		if !actor.IsBypass() {
			if actor.DepartmentID == nil || *actor.DepartmentID != inquiry.DepartmentID {
				return apperrors.NewForbidden("inquiry outside actor department")
			}
		}
		if domain.IsTerminal(inquiry.Status) {
			return apperrors.NewInvalidState("inquiry already resolved or closed", map[string]any{"status": inquiry.Status})
		}

		target, err := s.staff.GetProfileByID(ctx, staffProfileID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("staff profile", nil)
			}
			return err
		}
		if target.Status != domain.StaffProfileActive {
			return apperrors.NewNotFound("staff profile", nil)
		}
		if target.DepartmentID != inquiry.DepartmentID {
			return apperrors.NewConflict("assignee outside inquiry department", nil)
		}

		inquiry.AssignedToStaffID = &target.ID
		inquiry.Status = domain.InquiryStatusAssigned
		if err := s.inquiries.Update(ctx, inquiry); err != nil {
			return err
		}
		if err := s.recordAudit(ctx, inquiry.ID, domain.AuditActionAssigned, actor.UserID, nil, nil); err != nil {
			return err
		}
		if err := s.enqueueUserNotice(ctx, target.UserID, nil, domain.NotificationInquiryAssigned,
			"Inquiry assigned", fmt.Sprintf("Inquiry %s was assigned to you", inquiry.ReferenceKey), inquiryLink(inquiry.ID)); err != nil {
			return err
		}
		result = inquiry
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// EscalateInquiry moves the inquiry to another department, clearing its
// assignment. The originating department keeps read access to the inquiry
// through the ESCALATED audit row.
func (s *InquiryService) EscalateInquiry(ctx context.Context, actor accesscontrol.ActorContext, inquiryID, toDepartmentID string) (*domain.Inquiry, error) {
	if !actor.IsBypass() && !actor.HasAny(accesscontrol.EscalateClassKeys()...) {
		return nil, apperrors.NewForbidden("escalation not permitted")
	}

	var result *domain.Inquiry
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		inquiry, err := s.lockInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}
		if !actor.IsBypass() {
			if actor.DepartmentID == nil || *actor.DepartmentID != inquiry.DepartmentID {
				return apperrors.NewForbidden("inquiry outside actor department")
			}
		}
		if domain.IsTerminal(inquiry.Status) {
			return apperrors.NewInvalidState("inquiry already resolved or closed", map[string]any{"status": inquiry.Status})
		}

		target, err := s.departments.GetByID(ctx, toDepartmentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("department", nil)
			}
			return err
		}
		if !target.IsActive {
			return apperrors.NewNotFound("department", nil)
		}
		if target.ID == inquiry.DepartmentID {
			return apperrors.NewConflict("inquiry already in target department", nil)
		}

		from := inquiry.DepartmentID
		inquiry.DepartmentID = target.ID
		inquiry.AssignedToStaffID = nil
		inquiry.Status = domain.InquiryStatusEscalated
		if err := s.inquiries.Update(ctx, inquiry); err != nil {
			return err
		}
		if err := s.recordAudit(ctx, inquiry.ID, domain.AuditActionEscalated, actor.UserID, &from, &target.ID); err != nil {
			return err
		}
		if err := s.enqueueDepartmentNotice(ctx, target.ID, domain.NotificationInquiryEscalated,
			"Inquiry escalated", fmt.Sprintf("Inquiry %s was escalated to your department", inquiry.ReferenceKey), inquiryLink(inquiry.ID)); err != nil {
			return err
		}
		result = inquiry
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// UpdateStatus moves the inquiry to the requested state. Explicit status
// updates may skip states, but terminal inquiries never come back. An
// unassigned inquiry a staff actor touches is auto-assigned first.
func (s *InquiryService) UpdateStatus(ctx context.Context, actor accesscontrol.ActorContext, inquiryID string, status domain.InquiryStatus) (*domain.Inquiry, error) {
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}
	if !actor.IsBypass() && !actor.HasAny(accesscontrol.StaffActionKeys()...) {
		return nil, apperrors.NewForbidden("status updates not permitted")
	}
	scope, err := accesscontrol.ResolveViewScope(actor)
	if err != nil {
		return nil, err
	}

	var result *domain.Inquiry
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		inquiry, err := s.lockInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}
		switch scope {
		case accesscontrol.ScopeGlobal:
			// bypass
		case accesscontrol.ScopeDepartment:
			if actor.DepartmentID == nil || *actor.DepartmentID != inquiry.DepartmentID {
				return apperrors.NewForbidden("inquiry outside actor department")
			}
		case accesscontrol.ScopeAssignedOnly:
			if actor.StaffProfileID == nil || inquiry.AssignedToStaffID == nil || *inquiry.AssignedToStaffID != *actor.StaffProfileID {
				return apperrors.NewForbidden("inquiry not assigned to actor")
			}
		default:
			return apperrors.NewForbidden("status updates not permitted")
		}
		if domain.IsTerminal(inquiry.Status) {
			return apperrors.NewInvalidState("inquiry already resolved or closed", map[string]any{"status": inquiry.Status})
		}

		if inquiry.AssignedToStaffID == nil && actor.StaffProfileID != nil && domain.ShouldAutoAssign(inquiry.Status) {
			inquiry.AssignedToStaffID = actor.StaffProfileID
			if err := s.recordAudit(ctx, inquiry.ID, domain.AuditActionAssigned, actor.UserID, nil, nil); err != nil {
				return err
			}
		}

		inquiry.Status = status
		if err := s.inquiries.Update(ctx, inquiry); err != nil {
			return err
		}
		action := domain.AuditActionStatusChanged
		if status == domain.InquiryStatusClosed {
			action = domain.AuditActionClosed
		}
		if err := s.recordAudit(ctx, inquiry.ID, action, actor.UserID, nil, nil); err != nil {
			return err
		}
		result = inquiry
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListAudit returns the trail for an inquiry, newest first, under the same
// visibility rules as GetInquiry.
func (s *InquiryService) ListAudit(ctx context.Context, actor accesscontrol.ActorContext, inquiryID string) ([]domain.InquiryAudit, error) {
	inquiry, err := s.getVisible(ctx, actor, inquiryID)
	if err != nil {
		return nil, err
	}
	audits, err := s.audits.ListByInquiry(ctx, inquiry.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return audits, nil
}

// GetOverview aggregates inquiry counts and the staff solve leaderboard over
// the trailing window. Bypass roles only.
func (s *InquiryService) GetOverview(ctx context.Context, actor accesscontrol.ActorContext, days int) (*Overview, error) {
	if !actor.IsBypass() {
		return nil, apperrors.NewForbidden("overview restricted to administrators")
	}
	if days <= 0 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)

	counts, err := s.inquiries.CountByStatus(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	unchecked, err := s.inquiries.CountUnassignedOpen(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	perf, err := s.inquiries.StaffPerformance(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	totals := OverviewTotals{Unchecked: unchecked}
	for status, count := range counts {
		totals.Total += count
		if domain.IsTerminal(status) {
			totals.Solved += count
		} else {
			totals.Unresolved += count
		}
	}
	for _, row := range perf {
		totals.InCharge += row.InCharge
	}
	sort.Slice(perf, func(i, j int) bool {
		if perf[i].Solved != perf[j].Solved {
			return perf[i].Solved > perf[j].Solved
		}
		if perf[i].Active != perf[j].Active {
			return perf[i].Active
		}
		return perf[i].Name < perf[j].Name
	})
	return &Overview{Totals: totals, StaffPerformance: perf}, nil
}

// getVisible fetches an inquiry and enforces the actor's view scope. A
// missing inquiry and an invisible one are indistinguishable to the caller.
func (s *InquiryService) getVisible(ctx context.Context, actor accesscontrol.ActorContext, inquiryID string) (*domain.Inquiry, error) {
	scope, err := accesscontrol.ResolveViewScope(actor)
	if err != nil {
		return nil, err
	}
	inquiry, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("inquiry", nil)
		}
		return nil, apperrors.MapError(err)
	}

	visible := false
	switch scope {
	case accesscontrol.ScopeGlobal:
		visible = true
	case accesscontrol.ScopeDepartment:
		visible, err = s.departmentReachable(ctx, actor, inquiry)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
	case accesscontrol.ScopeAssignedOnly:
		visible = actor.StaffProfileID != nil && inquiry.AssignedToStaffID != nil &&
			*inquiry.AssignedToStaffID == *actor.StaffProfileID
	case accesscontrol.ScopeSelfOnly:
		visible = inquiry.CreatedByUserID == actor.UserID
	}
	if !visible {
		return nil, apperrors.NewNotFound("inquiry", nil)
	}
	return inquiry, nil
}

// departmentReachable reports whether a department-scoped actor can reach
// the inquiry: same department, cross-department view flag, or an
// escalation the actor's department originated.
func (s *InquiryService) departmentReachable(ctx context.Context, actor accesscontrol.ActorContext, inquiry *domain.Inquiry) (bool, error) {
	if actor.DepartmentViewAll {
		return true, nil
	}
	if actor.DepartmentID == nil {
		return false, nil
	}
	if inquiry.DepartmentID == *actor.DepartmentID {
		return true, nil
	}
	return s.audits.HasEscalationFrom(ctx, inquiry.ID, *actor.DepartmentID)
}

func (s *InquiryService) holdsOnlyNarrowReply(actor accesscontrol.ActorContext) bool {
	if actor.IsBypass() {
		return false
	}
	if !actor.Has(accesscontrol.PermDeptInquiriesReply) {
		return false
	}
	for _, key := range accesscontrol.ReplyClassKeys() {
		if key == accesscontrol.PermDeptInquiriesReply {
			continue
		}
		if actor.Has(key) {
			return false
		}
	}
	return true
}

func (s *InquiryService) lockInquiry(ctx context.Context, inquiryID string) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.GetByIDForUpdate(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("inquiry", nil)
		}
		return nil, err
	}
	return inquiry, nil
}

func (s *InquiryService) recordAudit(ctx context.Context, inquiryID string, action domain.AuditAction, performedBy string, from, to *string) error {
	return s.audits.Create(ctx, &domain.InquiryAudit{
		InquiryID:         inquiryID,
		Action:            action,
		PerformedByUserID: performedBy,
		FromDepartmentID:  from,
		ToDepartmentID:    to,
	})
}

// enqueueDepartmentNotice fans a notification out to the department's active
// staff. Enumeration happens in the caller's transaction, so staff
// deactivated mid-transaction are never notified.
func (s *InquiryService) enqueueDepartmentNotice(ctx context.Context, departmentID string, kind domain.NotificationKind, title, message, link string) error {
	staffList, err := s.staff.ListActiveProfilesByDepartment(ctx, departmentID)
	if err != nil {
		return err
	}
	for _, profile := range staffList {
		if err := s.enqueueUserNotice(ctx, profile.UserID, &departmentID, kind, title, message, link); err != nil {
			return err
		}
	}
	return nil
}

func (s *InquiryService) enqueueUserNotice(ctx context.Context, userID string, departmentID *string, kind domain.NotificationKind, title, message, link string) error {
	return s.outbox.Enqueue(ctx, &domain.NotificationRequest{
		UserID:       userID,
		DepartmentID: departmentID,
		Kind:         kind,
		Title:        title,
		Message:      message,
		Link:         link,
	})
}

func inquiryLink(inquiryID string) string {
	return "/inquiries/" + inquiryID
}

func generateReferenceKey() string {
	return "INQ-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
