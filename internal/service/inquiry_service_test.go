package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/accesscontrol"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

type inquiryHarness struct {
	service     *InquiryService
	inquiries   *fakeInquiryRepo
	messages    *fakeMessageRepo
	notes       *fakeNoteRepo
	audits      *fakeAuditRepo
	departments *fakeDepartmentRepo
	staff       *fakeStaffRepo
	outbox      *fakeOutboxRepo
}

func newInquiryHarness() *inquiryHarness {
	audits := &fakeAuditRepo{}
	h := &inquiryHarness{
		inquiries: newFakeInquiryRepo(audits),
		messages:  &fakeMessageRepo{},
		notes:     &fakeNoteRepo{},
		audits:    audits,
		departments: &fakeDepartmentRepo{departments: map[string]*domain.Department{
			"dep-sup": {ID: "dep-sup", Code: "SUPPORT", Name: "Support", IsActive: true},
			"dep-fin": {ID: "dep-fin", Code: "FINANCE", Name: "Finance", IsActive: true},
			"dep-hr":  {ID: "dep-hr", Code: "HR", Name: "HR", IsActive: true, CanViewAllDepartments: true},
		}},
		staff: &fakeStaffRepo{profiles: map[string]*domain.StaffProfile{
			"sp-sup":  {ID: "sp-sup", UserID: "staff-sup", Name: "Sam", DepartmentID: "dep-sup", Status: domain.StaffProfileActive},
			"sp-sup2": {ID: "sp-sup2", UserID: "staff-sup2", Name: "Sky", DepartmentID: "dep-sup", Status: domain.StaffProfileActive},
			"sp-fin":  {ID: "sp-fin", UserID: "staff-fin", Name: "Fay", DepartmentID: "dep-fin", Status: domain.StaffProfileActive},
		}},
		outbox: &fakeOutboxRepo{},
	}
	h.service = NewInquiryService(InquiryDependencies{
		Tx:             passthroughTxRunner{},
		InquiryRepo:    h.inquiries,
		MessageRepo:    h.messages,
		NoteRepo:       h.notes,
		AuditRepo:      h.audits,
		DepartmentRepo: h.departments,
		StaffRepo:      h.staff,
		OutboxRepo:     h.outbox,
		Logger:         zap.NewNop(),
		IntakeCode:     "SUPPORT",
	})
	return h
}

func perms(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}

func customerActor(userID string) accesscontrol.ActorContext {
	return accesscontrol.ActorContext{
		UserID:      userID,
		Role:        domain.RoleUser,
		Permissions: perms(accesscontrol.PermInquiriesCreate, accesscontrol.PermInquiriesView),
	}
}

func supportLeadActor() accesscontrol.ActorContext {
	staffID, deptID := "sp-sup", "dep-sup"
	return accesscontrol.ActorContext{
		UserID: "staff-sup",
		Role:   domain.RoleUser,
		Permissions: perms(
			"support.inquiries.view",
			"support.inquiries.reply",
			"support.inquiries.assign",
			"support.inquiries.escalate",
		),
		StaffProfileID: &staffID,
		DepartmentID:   &deptID,
	}
}

func narrowAgentActor() accesscontrol.ActorContext {
	staffID, deptID := "sp-sup2", "dep-sup"
	return accesscontrol.ActorContext{
		UserID: "staff-sup2",
		Role:   domain.RoleUser,
		Permissions: perms(
			accesscontrol.PermDeptInquiriesView,
			accesscontrol.PermDeptInquiriesReply,
		),
		StaffProfileID: &staffID,
		DepartmentID:   &deptID,
	}
}

func adminActor() accesscontrol.ActorContext {
	return accesscontrol.ActorContext{
		UserID:      "admin",
		Role:        domain.RoleAdmin,
		Permissions: perms(accesscontrol.PermissionWildcard),
	}
}

func (h *inquiryHarness) mustCreate(t *testing.T, userID string) *domain.Inquiry {
	t.Helper()
	inquiry, err := h.service.CreateInquiry(context.Background(), customerActor(userID), InquiryCreateInput{
		Type:    domain.InquiryTypeTechnical,
		Subject: "login broken",
		Message: "cannot sign in since this morning",
	})
	require.NoError(t, err)
	return inquiry
}

func TestCreateInquiryRequiresPermission(t *testing.T) {
	h := newInquiryHarness()
	actor := accesscontrol.ActorContext{UserID: "u1", Role: domain.RoleUser, Permissions: perms()}
	_, err := h.service.CreateInquiry(context.Background(), actor, InquiryCreateInput{
		Type: domain.InquiryTypeGeneral, Subject: "s", Message: "m",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestCreateInquiryLandsInIntake(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	assert.Equal(t, domain.InquiryStatusOpen, inquiry.Status)
	assert.Equal(t, "dep-sup", inquiry.DepartmentID)
	assert.Equal(t, domain.InquiryPriorityMedium, inquiry.Priority)
	assert.NotEmpty(t, inquiry.ReferenceKey)
	assert.Nil(t, inquiry.AssignedToStaffID)

	msgs, _ := h.messages.ListByInquiry(context.Background(), inquiry.ID)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.SenderTypeUser, msgs[0].SenderType)

	trail := h.audits.forInquiry(inquiry.ID)
	require.Len(t, trail, 1)
	assert.Equal(t, domain.AuditActionCreated, trail[0].Action)

	// one outbox row per active support staff
	assert.Len(t, h.outbox.forUser("staff-sup"), 1)
	assert.Len(t, h.outbox.forUser("staff-sup2"), 1)
	assert.Empty(t, h.outbox.forUser("staff-fin"))
}

func TestListInquiriesSelfScope(t *testing.T) {
	h := newInquiryHarness()
	mine := h.mustCreate(t, "cust-1")
	h.mustCreate(t, "cust-2")

	page, err := h.service.ListInquiries(context.Background(), customerActor("cust-1"), InquiryListInput{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, mine.ID, page.Items[0].ID)
}

func TestListInquiriesDepartmentScope(t *testing.T) {
	h := newInquiryHarness()
	h.mustCreate(t, "cust-1")
	h.mustCreate(t, "cust-2")

	page, err := h.service.ListInquiries(context.Background(), supportLeadActor(), InquiryListInput{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	finLead := supportLeadActor()
	finStaff, finDept := "sp-fin", "dep-fin"
	finLead.UserID = "staff-fin"
	finLead.Permissions = perms("finance.inquiries.view")
	finLead.StaffProfileID = &finStaff
	finLead.DepartmentID = &finDept
	page, err = h.service.ListInquiries(context.Background(), finLead, InquiryListInput{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestEscalatedInquiryStaysVisibleToOrigin(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	escalated, err := h.service.EscalateInquiry(context.Background(), supportLeadActor(), inquiry.ID, "dep-fin")
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusEscalated, escalated.Status)
	assert.Equal(t, "dep-fin", escalated.DepartmentID)
	assert.Nil(t, escalated.AssignedToStaffID)

	// the audit row carries the move between departments
	trail := h.audits.forInquiry(inquiry.ID)
	last := trail[len(trail)-1]
	assert.Equal(t, domain.AuditActionEscalated, last.Action)
	require.NotNil(t, last.FromDepartmentID)
	assert.Equal(t, "dep-sup", *last.FromDepartmentID)
	require.NotNil(t, last.ToDepartmentID)
	assert.Equal(t, "dep-fin", *last.ToDepartmentID)

	// origin department still sees it in listings and reads
	page, err := h.service.ListInquiries(context.Background(), supportLeadActor(), InquiryListInput{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	detail, err := h.service.GetInquiry(context.Background(), supportLeadActor(), inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, inquiry.ID, detail.Inquiry.ID)

	// finance staff were notified
	assert.NotEmpty(t, h.outbox.forUser("staff-fin"))
}

func TestOriginCannotRouteAfterEscalation(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	_, err := h.service.EscalateInquiry(context.Background(), supportLeadActor(), inquiry.ID, "dep-fin")
	require.NoError(t, err)

	// read access survives the move, routing authority does not
	_, err = h.service.AssignInquiry(context.Background(), supportLeadActor(), inquiry.ID, "sp-sup")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = h.service.EscalateInquiry(context.Background(), supportLeadActor(), inquiry.ID, "dep-hr")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestEscalateToSameDepartmentConflicts(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")
	_, err := h.service.EscalateInquiry(context.Background(), supportLeadActor(), inquiry.ID, "dep-sup")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestGetInquiryHidesExistenceOutsideScope(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	_, err := h.service.GetInquiry(context.Background(), customerActor("cust-2"), inquiry.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = h.service.GetInquiry(context.Background(), customerActor("cust-2"), "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGetInquiryStripsNotesForCustomers(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")
	_, err := h.service.AddInternalNote(context.Background(), supportLeadActor(), inquiry.ID, "checked billing, looks fine")
	require.NoError(t, err)

	detail, err := h.service.GetInquiry(context.Background(), customerActor("cust-1"), inquiry.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.InternalNotes)

	detail, err = h.service.GetInquiry(context.Background(), supportLeadActor(), inquiry.ID)
	require.NoError(t, err)
	assert.Len(t, detail.InternalNotes, 1)
}

func TestStaffReplyAutoAssignsAndProgresses(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	updated, err := h.service.AddMessage(context.Background(), supportLeadActor(), inquiry.ID, "looking into it")
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedToStaffID)
	assert.Equal(t, "sp-sup", *updated.AssignedToStaffID)
	assert.Equal(t, domain.InquiryStatusInProgress, updated.Status)

	trail := h.audits.forInquiry(inquiry.ID)
	require.Len(t, trail, 2)
	assert.Equal(t, domain.AuditActionAssigned, trail[1].Action)

	// the customer was told
	assert.NotEmpty(t, h.outbox.forUser("cust-1"))
}

func TestSecondStaffReplyKeepsFirstAssignee(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	first, err := h.service.AddMessage(context.Background(), supportLeadActor(), inquiry.ID, "taking this one")
	require.NoError(t, err)
	require.NotNil(t, first.AssignedToStaffID)
	assert.Equal(t, "sp-sup", *first.AssignedToStaffID)

	second := supportLeadActor()
	secondStaff := "sp-sup2"
	second.UserID = "staff-sup2"
	second.StaffProfileID = &secondStaff
	updated, err := h.service.AddMessage(context.Background(), second, inquiry.ID, "chiming in")
	require.NoError(t, err)

	// first toucher keeps the assignment, no second ASSIGNED row
	require.NotNil(t, updated.AssignedToStaffID)
	assert.Equal(t, "sp-sup", *updated.AssignedToStaffID)
	assigned := 0
	for _, entry := range h.audits.forInquiry(inquiry.ID) {
		if entry.Action == domain.AuditActionAssigned {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned)
}

func TestNarrowReplyRequiresAssignment(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	_, err := h.service.AddMessage(context.Background(), narrowAgentActor(), inquiry.ID, "hello")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// once assigned to them, the reply goes through
	_, err = h.service.AssignInquiry(context.Background(), supportLeadActor(), inquiry.ID, "sp-sup2")
	require.NoError(t, err)
	updated, err := h.service.AddMessage(context.Background(), narrowAgentActor(), inquiry.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusInProgress, updated.Status)
}

func TestCustomerCannotMessageForeignInquiry(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")
	_, err := h.service.AddMessage(context.Background(), customerActor("cust-2"), inquiry.ID, "me too")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAssignRejectsForeignDepartmentStaff(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")
	_, err := h.service.AssignInquiry(context.Background(), supportLeadActor(), inquiry.ID, "sp-fin")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestAssignUnknownStaffNotFound(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")
	_, err := h.service.AssignInquiry(context.Background(), supportLeadActor(), inquiry.ID, "sp-nope")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestTerminalInquiryRejectsMutation(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")
	_, err := h.service.UpdateStatus(context.Background(), supportLeadActor(), inquiry.ID, domain.InquiryStatusClosed)
	require.NoError(t, err)

	_, err = h.service.AssignInquiry(context.Background(), supportLeadActor(), inquiry.ID, "sp-sup")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	_, err = h.service.EscalateInquiry(context.Background(), supportLeadActor(), inquiry.ID, "dep-fin")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	_, err = h.service.UpdateStatus(context.Background(), supportLeadActor(), inquiry.ID, domain.InquiryStatusOpen)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestCloseRecordsClosedAudit(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	updated, err := h.service.UpdateStatus(context.Background(), supportLeadActor(), inquiry.ID, domain.InquiryStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusClosed, updated.Status)
	// the first staff touch auto-assigned before closing
	require.NotNil(t, updated.AssignedToStaffID)

	trail := h.audits.forInquiry(inquiry.ID)
	actions := make([]domain.AuditAction, 0, len(trail))
	for _, entry := range trail {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []domain.AuditAction{
		domain.AuditActionCreated,
		domain.AuditActionAssigned,
		domain.AuditActionClosed,
	}, actions)
}

func TestUpdateStatusAssignedOnlyScope(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	// assigned to the lead, not the narrow agent
	_, err := h.service.AssignInquiry(context.Background(), supportLeadActor(), inquiry.ID, "sp-sup")
	require.NoError(t, err)

	_, err = h.service.UpdateStatus(context.Background(), narrowAgentActor(), inquiry.ID, domain.InquiryStatusResolved)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestListAuditOrderingNewestFirst(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")
	_, err := h.service.AssignInquiry(context.Background(), supportLeadActor(), inquiry.ID, "sp-sup")
	require.NoError(t, err)

	entries, err := h.service.ListAudit(context.Background(), supportLeadActor(), inquiry.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditActionAssigned, entries[0].Action)
	assert.Equal(t, domain.AuditActionCreated, entries[1].Action)
}

func TestOverviewRestrictedToBypass(t *testing.T) {
	h := newInquiryHarness()
	_, err := h.service.GetOverview(context.Background(), supportLeadActor(), 30)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestOverviewBuckets(t *testing.T) {
	h := newInquiryHarness()
	h.mustCreate(t, "cust-1")
	closedOne := h.mustCreate(t, "cust-2")
	_, err := h.service.UpdateStatus(context.Background(), supportLeadActor(), closedOne.ID, domain.InquiryStatusClosed)
	require.NoError(t, err)

	overview, err := h.service.GetOverview(context.Background(), adminActor(), 30)
	require.NoError(t, err)
	assert.EqualValues(t, 2, overview.Totals.Total)
	assert.EqualValues(t, 1, overview.Totals.Unresolved)
	assert.EqualValues(t, 1, overview.Totals.Solved)
	assert.EqualValues(t, 1, overview.Totals.Unchecked)
}

func TestAdminBypassesDepartmentChecks(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	// admin has no staff profile and no department yet can escalate
	_, err := h.service.EscalateInquiry(context.Background(), adminActor(), inquiry.ID, "dep-fin")
	require.NoError(t, err)

	detail, err := h.service.GetInquiry(context.Background(), adminActor(), inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, "dep-fin", detail.Inquiry.DepartmentID)
}

func TestDepartmentViewAllSeesEverything(t *testing.T) {
	h := newInquiryHarness()
	inquiry := h.mustCreate(t, "cust-1")

	hrStaff, hrDept := "sp-hr", "dep-hr"
	h.staff.profiles["sp-hr"] = &domain.StaffProfile{
		ID: "sp-hr", UserID: "staff-hr", Name: "Harper", DepartmentID: "dep-hr", Status: domain.StaffProfileActive,
	}
	hr := accesscontrol.ActorContext{
		UserID:            "staff-hr",
		Role:              domain.RoleUser,
		Permissions:       perms("hr.inquiries.view"),
		StaffProfileID:    &hrStaff,
		DepartmentID:      &hrDept,
		DepartmentViewAll: true,
	}

	page, err := h.service.ListInquiries(context.Background(), hr, InquiryListInput{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	detail, err := h.service.GetInquiry(context.Background(), hr, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, inquiry.ID, detail.Inquiry.ID)
}
