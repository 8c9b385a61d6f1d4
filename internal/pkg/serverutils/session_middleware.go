package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "aq_sid"
	sessionLocalKey   = "session_id"
)

type SessionCookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

// SessionMiddleware makes sure every browser carries a session id cookie and
// exposes it through SessionID. Ids that are not UUIDs are replaced.
func SessionMiddleware(cfg SessionCookieConfig) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sid := ctx.Cookies(SessionCookieName)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
		}

		ctx.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    sid,
			Path:     "/",
			Expires:  time.Now().Add(cfg.MaxAge),
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		ctx.Locals(sessionLocalKey, sid)
		return ctx.Next()
	}
}

func SessionID(ctx *fiber.Ctx) string {
	sid, _ := ctx.Locals(sessionLocalKey).(string)
	return sid
}
