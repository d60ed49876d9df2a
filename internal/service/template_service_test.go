package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/accesscontrol"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

// fakeTemplateRepo simulates a store that may not be provisioned yet.
type fakeTemplateRepo struct {
	provisioned bool
	seq         int
	templates   map[string]*domain.QuickReplyTemplate
}

func newFakeTemplateRepo(provisioned bool) *fakeTemplateRepo {
	return &fakeTemplateRepo{provisioned: provisioned, templates: map[string]*domain.QuickReplyTemplate{}}
}

func (f *fakeTemplateRepo) storeMissing() error {
	return &pgconn.PgError{Code: "42P01", Message: "relation \"quick_reply_templates\" does not exist"}
}

func (f *fakeTemplateRepo) Count(_ context.Context) (int64, error) {
	if !f.provisioned {
		return 0, f.storeMissing()
	}
	return int64(len(f.templates)), nil
}

func (f *fakeTemplateRepo) List(_ context.Context, inquiryType *domain.InquiryType) ([]domain.QuickReplyTemplate, error) {
	if !f.provisioned {
		return nil, f.storeMissing()
	}
	var out []domain.QuickReplyTemplate
	for _, tmpl := range f.templates {
		if inquiryType != nil && tmpl.Type != nil && *tmpl.Type != *inquiryType {
			continue
		}
		out = append(out, *tmpl)
	}
	return out, nil
}

func (f *fakeTemplateRepo) Create(_ context.Context, tmpl *domain.QuickReplyTemplate) error {
	if !f.provisioned {
		return f.storeMissing()
	}
	f.seq++
	tmpl.ID = fmt.Sprintf("tpl-%d", f.seq)
	tmpl.CreatedAt = time.Now()
	tmpl.UpdatedAt = tmpl.CreatedAt
	clone := *tmpl
	f.templates[tmpl.ID] = &clone
	return nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, tmpl *domain.QuickReplyTemplate) error {
	if !f.provisioned {
		return f.storeMissing()
	}
	if _, ok := f.templates[tmpl.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *tmpl
	f.templates[tmpl.ID] = &clone
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id string) error {
	if !f.provisioned {
		return f.storeMissing()
	}
	if _, ok := f.templates[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.templates, id)
	return nil
}

func staffViewerActor() accesscontrol.ActorContext {
	return accesscontrol.ActorContext{
		UserID:      "staff-1",
		Role:        domain.RoleUser,
		Permissions: perms("support.inquiries.reply"),
	}
}

func templateManagerActor() accesscontrol.ActorContext {
	return accesscontrol.ActorContext{
		UserID:      "staff-2",
		Role:        domain.RoleUser,
		Permissions: perms(accesscontrol.PermTemplatesManage, accesscontrol.PermTemplatesView),
	}
}

func TestListTemplatesRequiresStaffCapability(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(true), zap.NewNop())
	_, err := svc.ListTemplates(context.Background(), customerActor("cust-1"), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestListTemplatesSeedsDefaultsOnFirstUse(t *testing.T) {
	repo := newFakeTemplateRepo(true)
	svc := NewTemplateService(repo, zap.NewNop())

	items, err := svc.ListTemplates(context.Background(), staffViewerActor(), nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	// the seed happens once
	items, err = svc.ListTemplates(context.Background(), staffViewerActor(), nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestListTemplatesDegradesWhenUnprovisioned(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(false), zap.NewNop())
	items, err := svc.ListTemplates(context.Background(), staffViewerActor(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTemplateMutationsSurfaceUnavailable(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(false), zap.NewNop())
	_, err := svc.CreateTemplate(context.Background(), templateManagerActor(), TemplateInput{Title: "t", Body: "b"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnavailable))

	err = svc.DeleteTemplate(context.Background(), templateManagerActor(), "tpl-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnavailable))
}

func TestTemplateMutationsRequireManagePermission(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(true), zap.NewNop())
	_, err := svc.CreateTemplate(context.Background(), staffViewerActor(), TemplateInput{Title: "t", Body: "b"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestTemplateCrudRoundTrip(t *testing.T) {
	repo := newFakeTemplateRepo(true)
	svc := NewTemplateService(repo, zap.NewNop())
	actor := templateManagerActor()

	paymentType := domain.InquiryTypePayment
	created, err := svc.CreateTemplate(context.Background(), actor, TemplateInput{
		Title: "Refund timeline",
		Body:  "Refunds settle within 5 business days.",
		Type:  &paymentType,
		Tags:  []string{"refund"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.CreatedByUserID)
	assert.Equal(t, actor.UserID, *created.CreatedByUserID)

	updated, err := svc.UpdateTemplate(context.Background(), actor, created.ID, TemplateInput{
		Title: "Refund timeline",
		Body:  "Refunds settle within 3 business days.",
		Type:  &paymentType,
	})
	require.NoError(t, err)
	assert.Contains(t, updated.Body, "3 business days")

	require.NoError(t, svc.DeleteTemplate(context.Background(), actor, created.ID))
	err = svc.DeleteTemplate(context.Background(), actor, created.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateUnknownTemplateNotFound(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(true), zap.NewNop())
	_, err := svc.UpdateTemplate(context.Background(), templateManagerActor(), "tpl-missing", TemplateInput{Title: "t", Body: "b"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
