package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/accesscontrol"
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

const actorKey = "auth_actor"

// AuthMiddleware validates bearer tokens and resolves the caller's actor
// context. Resolution happens per request so revoked grants and suspended
// accounts take effect immediately, not at token expiry.
type AuthMiddleware struct {
	tokens   *TokenManager
	resolver *accesscontrol.Resolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, resolver *accesscontrol.Resolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	actor, err := m.resolver.Resolve(c.Context(), claims.UserID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if actor.Role == "" {
		return apperrors.NewUnauthorized("account not active")
	}

	c.Locals(actorKey, actor)
	return c.Next()
}

// ActorFromContext retrieves the resolved actor context.
func ActorFromContext(c *fiber.Ctx) (accesscontrol.ActorContext, bool) {
	val := c.Locals(actorKey)
	if val == nil {
		return accesscontrol.ActorContext{}, false
	}
	actor, ok := val.(accesscontrol.ActorContext)
	return actor, ok
}
