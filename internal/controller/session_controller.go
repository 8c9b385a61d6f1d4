package controller

import (
	"aquatech-web/internal/mapper"
	"aquatech-web/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type sessionController struct {
	guard *SessionGuard
}

func NewSessionController(guard *SessionGuard) ISessionController {
	return &sessionController{guard: guard}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Get("/session", c.Show)
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	snap, err := c.guard.Snapshot(ctx)
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return ctx.JSON(serverutils.SuccessResponse("Success get session", mapper.ToSessionResponse(snap)))
}
