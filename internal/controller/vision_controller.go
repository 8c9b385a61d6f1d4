package controller

import (
	"aquatech-web/internal/pkg/serverutils"
	"aquatech-web/internal/service"
	"aquatech-web/internal/vision"

	"github.com/gofiber/fiber/v2"
)

type IVisionController interface {
	RegisterRoutes(r fiber.Router)
	Extract(ctx *fiber.Ctx) error
	Card(ctx *fiber.Ctx) error
	Record(ctx *fiber.Ctx) error
}

type visionController struct {
	visionService  service.IVisionService
	productService service.IProductService
	guard          *SessionGuard
}

func NewVisionController(visionService service.IVisionService, productService service.IProductService, guard *SessionGuard) IVisionController {
	return &visionController{visionService: visionService, productService: productService, guard: guard}
}

// RegisterRoutes expects the /api router. Only recording needs a signed-in user.
func (c *visionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/vision")
	h.Post("/extract", c.Extract)
	h.Post("/card", c.Card)

	r.Post("/products/:modelId/vision", c.guard.RequireAPIUser(), c.Record)
}

func invalidPayload() error {
	return fiber.NewError(fiber.StatusBadRequest, "Invalid vision payload")
}

func (c *visionController) Extract(ctx *fiber.Ctx) error {
	res, err := c.visionService.Extract(ctx.Body())
	if err != nil {
		return invalidPayload()
	}
	return ctx.JSON(serverutils.SuccessResponse("Success extract observations", res))
}

// Card renders the feedback card fragment. ?expanded=true renders it open.
func (c *visionController) Card(ctx *fiber.Ctx) error {
	card, err := c.visionService.Card(ctx.Body())
	if err != nil {
		return invalidPayload()
	}
	if ctx.QueryBool("expanded") {
		card.Toggle()
	}
	return ctx.Render("partials/vision_card", visionCardView{Card: card, Title: vision.CardTitle})
}

func (c *visionController) Record(ctx *fiber.Ctx) error {
	modelId := ctx.Params("modelId")
	if _, err := c.productService.Show(ctx.UserContext(), modelId); err != nil {
		return fiber.NewError(statusFor(err), err.Error())
	}

	res, err := c.visionService.Record(ctx.UserContext(), serverutils.SessionID(ctx), modelId, ctx.Body())
	if err != nil {
		return invalidPayload()
	}
	return ctx.JSON(serverutils.SuccessResponse("Success record vision feedback", res))
}
