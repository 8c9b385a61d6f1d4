package controller

import (
	"aquatech-web/internal/dto"
	"aquatech-web/internal/pkg/serverutils"
	"aquatech-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProductController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Categories(ctx *fiber.Ctx) error
}

type productController struct {
	productService service.IProductService
	guard          *SessionGuard
}

func NewProductController(productService service.IProductService, guard *SessionGuard) IProductController {
	return &productController{productService: productService, guard: guard}
}

func (c *productController) RegisterRoutes(r fiber.Router) {
	requireUser := c.guard.RequireAPIUser()

	h := r.Group("/products")
	h.Get("", requireUser, c.List)
	h.Get("/:modelId", requireUser, c.Show)

	r.Get("/categories", requireUser, c.Categories)
}

func (c *productController) List(ctx *fiber.Ctx) error {
	var req dto.ListProductsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	res, err := c.productService.List(ctx.UserContext(), &req)
	if err != nil {
		return fiber.NewError(statusFor(err), err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list products", res))
}

func (c *productController) Show(ctx *fiber.Ctx) error {
	res, err := c.productService.Show(ctx.UserContext(), ctx.Params("modelId"))
	if err != nil {
		return fiber.NewError(statusFor(err), err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show product", res))
}

func (c *productController) Categories(ctx *fiber.Ctx) error {
	res, err := c.productService.Categories(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list categories", res))
}
