package controller

import (
	"context"
	"time"

	"aquatech-web/internal/entity"
	"aquatech-web/internal/pkg/serverutils"
	"aquatech-web/internal/sessiongate"

	"github.com/gofiber/fiber/v2"
)

const sessionUserLocalKey = "session_user"

// SessionGuard resolves the gate snapshot of the calling browser session.
type SessionGuard struct {
	registry *sessiongate.Registry
	grace    time.Duration
	jwt      fiber.Handler
}

// NewSessionGuard waits up to grace for a gate's first answer before a request
// is served from the loading state.
func NewSessionGuard(registry *sessiongate.Registry, grace time.Duration, jwtSecret string) *SessionGuard {
	return &SessionGuard{
		registry: registry,
		grace:    grace,
		jwt:      serverutils.NewJwtMiddleware(jwtSecret),
	}
}

func (g *SessionGuard) Gate(ctx *fiber.Ctx) (*sessiongate.Gate, error) {
	return g.registry.Acquire(serverutils.SessionID(ctx))
}

// Snapshot returns the session state, still loading when the gate did not
// resolve within the grace period.
func (g *SessionGuard) Snapshot(ctx *fiber.Ctx) (sessiongate.Snapshot, error) {
	gate, err := g.Gate(ctx)
	if err != nil {
		return sessiongate.Snapshot{}, err
	}

	waitCtx, cancel := context.WithTimeout(ctx.UserContext(), g.grace)
	defer cancel()
	snap, _ := gate.Wait(waitCtx)
	return snap, nil
}

// RequireAPIUser admits requests carrying a valid Bearer access token or a
// signed-in browser session.
func (g *SessionGuard) RequireAPIUser() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if serverutils.BearerToken(ctx) != "" {
			return g.jwt(ctx)
		}

		snap, err := g.Snapshot(ctx)
		if err != nil {
			return err
		}
		switch snap.Status {
		case sessiongate.StatusLoading:
			ctx.Set(fiber.HeaderRetryAfter, "1")
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "Session is still loading"))
		case sessiongate.StatusAnonymous:
			return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Authentication required"))
		}

		ctx.Locals(serverutils.UserIDLocalKey, snap.User.ID)
		ctx.Locals(serverutils.UserEmailLocalKey, snap.User.Email)
		ctx.Locals(sessionUserLocalKey, snap.User)
		return ctx.Next()
	}
}

func sessionUser(ctx *fiber.Ctx) *entity.SessionUser {
	user, _ := ctx.Locals(sessionUserLocalKey).(*entity.SessionUser)
	return user
}
