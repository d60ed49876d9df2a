// Package notify hands notification requests to the delivery layer. The
// engine only requests "notify user X" / "notify department Y"; actual
// delivery (email, push, in-app) is a downstream consumer's concern.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// Notifier is the collaborator interface the core emits through. Both
// methods are fire-and-forget from the core's viewpoint.
type Notifier interface {
	NotifyUser(ctx context.Context, userID string, kind domain.NotificationKind, title, message, link string) error
	NotifyDepartment(ctx context.Context, departmentID string, kind domain.NotificationKind, title, message, link string) error
}

// envelope is the wire shape pushed onto the delivery queue.
type envelope struct {
	RecipientType string                  `json:"recipient_type"`
	RecipientID   string                  `json:"recipient_id"`
	Kind          domain.NotificationKind `json:"kind"`
	Title         string                  `json:"title"`
	Message       string                  `json:"message"`
	Link          string                  `json:"link,omitempty"`
	EmittedAt     time.Time               `json:"emitted_at"`
}

const deliveryQueue = "inquiry:notifications"

// RedisNotifier pushes notification envelopes onto a Redis list consumed by
// the delivery service.
type RedisNotifier struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier builds the notifier.
func NewRedisNotifier(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger}
}

// NotifyUser enqueues a user-addressed notification.
func (n *RedisNotifier) NotifyUser(ctx context.Context, userID string, kind domain.NotificationKind, title, message, link string) error {
	return n.push(ctx, envelope{
		RecipientType: "USER",
		RecipientID:   userID,
		Kind:          kind,
		Title:         title,
		Message:       message,
		Link:          link,
		EmittedAt:     time.Now().UTC(),
	})
}

// NotifyDepartment enqueues a department-addressed notification.
func (n *RedisNotifier) NotifyDepartment(ctx context.Context, departmentID string, kind domain.NotificationKind, title, message, link string) error {
	return n.push(ctx, envelope{
		RecipientType: "DEPARTMENT",
		RecipientID:   departmentID,
		Kind:          kind,
		Title:         title,
		Message:       message,
		Link:          link,
		EmittedAt:     time.Now().UTC(),
	})
}

func (n *RedisNotifier) push(ctx context.Context, env envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := n.client.LPush(ctx, deliveryQueue, payload).Err(); err != nil {
		n.logger.Warn("notification enqueue failed",
			zap.String("recipient_type", env.RecipientType),
			zap.String("kind", string(env.Kind)),
			zap.Error(err))
		return err
	}
	return nil
}

// QueueKey returns the Redis key envelopes are pushed to.
func QueueKey() string {
	return deliveryQueue
}
