package controller

import (
	"aquatech-web/internal/dto"
	"aquatech-web/internal/pkg/serverutils"
	"aquatech-web/internal/routing"
	"aquatech-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(app fiber.Router)
	EmailSignIn(ctx *fiber.Ctx) error
	EmailSignInAPI(ctx *fiber.Ctx) error
	OAuthSignIn(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	LogoutAPI(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	guard   *SessionGuard
	pages   *Pages
}

func NewAuthController(service service.IAuthService, guard *SessionGuard, pages *Pages) IAuthController {
	return &authController{service: service, guard: guard, pages: pages}
}

func (c *authController) RegisterRoutes(app fiber.Router) {
	h := app.Group("/auth")
	h.Post("/email", c.EmailSignIn)
	h.Get("/callback", c.Callback)
	h.Post("/logout", c.Logout)
	h.Get("/:provider", c.OAuthSignIn)

	api := app.Group("/api/auth")
	api.Post("/email", c.EmailSignInAPI)
	api.Post("/logout", c.LogoutAPI)
}

func (c *authController) EmailSignIn(ctx *fiber.Ctx) error {
	snap, err := c.guard.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Authenticated() {
		return ctx.Redirect(routing.PathMarketplace)
	}

	var req dto.EmailSignInRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.pages.login(ctx, fiber.StatusBadRequest, "", messageErrorPrefix+"Invalid form submission")
	}

	if err := c.service.SignInWithEmail(ctx.UserContext(), serverutils.SessionID(ctx), &req); err != nil {
		return c.pages.login(ctx, statusFor(err), req.Email, errorMessage(err))
	}
	return c.pages.login(ctx, fiber.StatusOK, req.Email, MessageMagicLinkSent)
}

func (c *authController) EmailSignInAPI(ctx *fiber.Ctx) error {
	var req dto.EmailSignInRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid request body"))
	}

	if err := c.service.SignInWithEmail(ctx.UserContext(), serverutils.SessionID(ctx), &req); err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Check your email for the magic link!", nil))
}

func (c *authController) OAuthSignIn(ctx *fiber.Ctx) error {
	url, err := c.service.SignInWithOAuth(ctx.UserContext(), serverutils.SessionID(ctx), ctx.Params("provider"))
	if err != nil {
		return c.pages.login(ctx, statusFor(err), "", errorMessage(err))
	}
	return ctx.Redirect(url)
}

// Callback completes a magic link or OAuth sign-in. The session gate learns
// about the new session from the SIGNED_IN notification.
func (c *authController) Callback(ctx *fiber.Ctx) error {
	if desc := ctx.Query("error_description"); desc != "" {
		return c.pages.login(ctx, fiber.StatusUnauthorized, "", messageErrorPrefix+desc)
	}

	if _, err := c.service.CompleteSignIn(ctx.UserContext(), serverutils.SessionID(ctx), ctx.Query("code")); err != nil {
		return c.pages.login(ctx, statusFor(err), "", errorMessage(err))
	}
	return ctx.Redirect(routing.PathMarketplace)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	if err := c.service.SignOut(ctx.UserContext(), serverutils.SessionID(ctx)); err != nil {
		return err
	}
	return ctx.Redirect(routing.PathLogin)
}

func (c *authController) LogoutAPI(ctx *fiber.Ctx) error {
	if err := c.service.SignOut(ctx.UserContext(), serverutils.SessionID(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Signed out", nil))
}
