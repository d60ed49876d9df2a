package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

func newTestNotifier(t *testing.T) (*RedisNotifier, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisNotifier(client, zap.NewNop()), srv
}

func TestNotifyUserPushesEnvelope(t *testing.T) {
	notifier, srv := newTestNotifier(t)

	err := notifier.NotifyUser(context.Background(), "u1", domain.NotificationInquiryAssigned,
		"Inquiry assigned", "Inquiry INQ-ABC was assigned to you", "/inquiries/inq-1")
	require.NoError(t, err)

	raw, err := srv.Lpop(QueueKey())
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, "USER", env["recipient_type"])
	assert.Equal(t, "u1", env["recipient_id"])
	assert.Equal(t, string(domain.NotificationInquiryAssigned), env["kind"])
	assert.Equal(t, "/inquiries/inq-1", env["link"])
}

func TestNotifyDepartmentPushesEnvelope(t *testing.T) {
	notifier, srv := newTestNotifier(t)

	err := notifier.NotifyDepartment(context.Background(), "dep-1", domain.NotificationInquiryEscalated,
		"Inquiry escalated", "Inquiry INQ-ABC landed in your queue", "")
	require.NoError(t, err)

	raw, err := srv.Lpop(QueueKey())
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, "DEPARTMENT", env["recipient_type"])
	assert.Equal(t, "dep-1", env["recipient_id"])
	_, hasLink := env["link"]
	assert.False(t, hasLink, "empty link should be omitted")
}

func TestNotifyFailsWhenRedisDown(t *testing.T) {
	notifier, srv := newTestNotifier(t)
	srv.Close()
	err := notifier.NotifyUser(context.Background(), "u1", domain.NotificationInquiryMessage, "t", "m", "")
	assert.Error(t, err)
}
