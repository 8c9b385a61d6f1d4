package controller

import (
	"errors"
	"net/url"
	"strconv"

	"aquatech-web/internal/dto"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/pkg/serverutils"
	"aquatech-web/internal/pkg/view"
	"aquatech-web/internal/routing"
	"aquatech-web/internal/service"
	"aquatech-web/internal/sessiongate"
	"aquatech-web/internal/vision"

	"github.com/gofiber/fiber/v2"
)

const messageProductNotFound = "We could not find that product."

type IPageController interface {
	RegisterRoutes(app fiber.Router)
	Show(ctx *fiber.Ctx) error
	SendInquiry(ctx *fiber.Ctx) error
	NotFound(ctx *fiber.Ctx) error
}

type pageController struct {
	productService service.IProductService
	visionService  service.IVisionService
	inquiryService service.IInquiryService
	guard          *SessionGuard
	pages          *Pages
}

func NewPageController(
	productService service.IProductService,
	visionService service.IVisionService,
	inquiryService service.IInquiryService,
	guard *SessionGuard,
	pages *Pages,
) IPageController {
	return &pageController{
		productService: productService,
		visionService:  visionService,
		inquiryService: inquiryService,
		guard:          guard,
		pages:          pages,
	}
}

func (c *pageController) RegisterRoutes(app fiber.Router) {
	app.Get(routing.PathMarketplace, c.Show)
	app.Get(routing.PathLogin, c.Show)
	app.Get("/product/:modelId", c.Show)
	app.Post("/product/:modelId/inquiry", c.SendInquiry)
}

// Show renders whatever view the router picks for the current path and
// session. Nothing is decided before the session gate has answered.
func (c *pageController) Show(ctx *fiber.Ctx) error {
	snap, err := c.guard.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Status == sessiongate.StatusLoading {
		return c.pages.loading(ctx)
	}

	decision := routing.Resolve(snap.Authenticated(), ctx.Path())
	if decision.IsRedirect() {
		return ctx.Redirect(decision.Redirect)
	}

	switch decision.View {
	case routing.ViewLogin:
		return c.pages.login(ctx, fiber.StatusOK, "", "")
	case routing.ViewMarketplace:
		return c.marketplace(ctx, snap.User)
	case routing.ViewProduct:
		return c.product(ctx, snap.User, decision.Params["modelId"], fiber.StatusOK, "", "")
	}
	return c.pages.notFound(ctx, snap.User, "")
}

// NotFound is the catch-all handler. API paths get a JSON answer.
func (c *pageController) NotFound(ctx *fiber.Ctx) error {
	if serverutils.IsAPIRequest(ctx) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Not found"))
	}
	return c.Show(ctx)
}

func marketplaceURL(query, category string, page int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if category != "" {
		v.Set("category", category)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return routing.PathMarketplace
	}
	return routing.PathMarketplace + "?" + v.Encode()
}

func (c *pageController) marketplace(ctx *fiber.Ctx, user *entity.SessionUser) error {
	req := dto.ListProductsRequest{
		Search:   ctx.Query("q"),
		Category: ctx.Query("category"),
		Page:     ctx.QueryInt("page", 1),
	}
	if req.Page < 1 {
		req.Page = 1
	}

	products, err := c.productService.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	categories, err := c.productService.Categories(ctx.UserContext())
	if err != nil {
		return err
	}

	v := marketplaceView{
		layoutView: layoutView{User: user},
		Products:   products,
		Categories: categories,
		Query:      req.Search,
		Category:   req.Category,
	}
	if products.Page > 1 {
		v.PrevURL = marketplaceURL(req.Search, req.Category, products.Page-1)
	}
	if products.Page < products.TotalPages {
		v.NextURL = marketplaceURL(req.Search, req.Category, products.Page+1)
	}
	return ctx.Render("pages/marketplace", v, view.LayoutMain)
}

func (c *pageController) product(ctx *fiber.Ctx, user *entity.SessionUser, modelId string, status int, draft, message string) error {
	product, err := c.productService.Show(ctx.UserContext(), modelId)
	if errors.Is(err, service.ErrProductNotFound) {
		return c.pages.notFound(ctx, user, messageProductNotFound)
	}
	if err != nil {
		return err
	}

	card := vision.Present(c.visionService.Latest(serverutils.SessionID(ctx), modelId))
	if ctx.QueryBool("feedback") {
		card.Toggle()
	}

	return ctx.Status(status).Render("pages/product", productView{
		layoutView:     layoutView{User: user},
		Product:        product,
		Vision:         visionCardView{Card: card, Title: vision.CardTitle},
		InquiryEnabled: c.inquiryService.Enabled(),
		InquiryDraft:   draft,
		Message:        message,
	}, view.LayoutMain)
}

func (c *pageController) SendInquiry(ctx *fiber.Ctx) error {
	modelId := ctx.Params("modelId")

	snap, err := c.guard.Snapshot(ctx)
	if err != nil {
		return err
	}
	switch snap.Status {
	case sessiongate.StatusLoading:
		return ctx.Redirect(routing.ProductPath(modelId))
	case sessiongate.StatusAnonymous:
		return ctx.Redirect(routing.PathLogin)
	}

	var req dto.InquiryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.product(ctx, snap.User, modelId, fiber.StatusBadRequest, "", messageErrorPrefix+"Invalid form submission")
	}

	if err := c.inquiryService.Send(ctx.UserContext(), snap.User, modelId, &req); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.pages.notFound(ctx, snap.User, messageProductNotFound)
		}
		return c.product(ctx, snap.User, modelId, statusFor(err), req.Message, errorMessage(err))
	}
	return c.product(ctx, snap.User, modelId, fiber.StatusOK, "", MessageInquirySent)
}
