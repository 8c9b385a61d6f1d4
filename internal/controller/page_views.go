package controller

import (
	"strings"

	"aquatech-web/internal/dto"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/pkg/view"
	"aquatech-web/internal/vision"

	"github.com/gofiber/fiber/v2"
)

const (
	MessageMagicLinkSent = "✅ Check your email for the magic link!"
	messageErrorPrefix   = "❌ Error: "
	MessageInquirySent   = "✅ Your question was sent. We will reply by email."
)

type layoutView struct {
	User *entity.SessionUser
}

type providerLink struct {
	ID    string
	Label string
}

type loginView struct {
	layoutView
	Email     string
	Message   string
	Providers []providerLink
}

type loadingView struct {
	layoutView
	RetrySeconds int
}

type marketplaceView struct {
	layoutView
	Products   *dto.ListProductsResponse
	Categories []string
	Query      string
	Category   string
	PrevURL    string
	NextURL    string
}

type visionCardView struct {
	vision.Card
	Title string
}

type productView struct {
	layoutView
	Product        *dto.ProductResponse
	Vision         visionCardView
	InquiryEnabled bool
	InquiryDraft   string
	Message        string
}

type messageView struct {
	layoutView
	Message string
}

func errorMessage(err error) string {
	return messageErrorPrefix + err.Error()
}

// Pages renders the full page views shared by the page and auth controllers.
type Pages struct {
	providers    []providerLink
	retrySeconds int
}

func NewPages(providers []string, retrySeconds int) *Pages {
	links := make([]providerLink, 0, len(providers))
	for _, p := range providers {
		links = append(links, providerLink{ID: p, Label: providerLabel(p)})
	}
	if retrySeconds < 1 {
		retrySeconds = 1
	}
	return &Pages{providers: links, retrySeconds: retrySeconds}
}

func providerLabel(id string) string {
	switch id {
	case "github":
		return "GitHub"
	case "":
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

func (p *Pages) login(ctx *fiber.Ctx, status int, email, message string) error {
	return ctx.Status(status).Render("pages/login", loginView{
		Email:     email,
		Message:   message,
		Providers: p.providers,
	}, view.LayoutMain)
}

func (p *Pages) loading(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return ctx.Status(fiber.StatusOK).Render("pages/loading", loadingView{RetrySeconds: p.retrySeconds}, view.LayoutMain)
}

func (p *Pages) notFound(ctx *fiber.Ctx, user *entity.SessionUser, message string) error {
	return ctx.Status(fiber.StatusNotFound).Render("pages/not_found", messageView{
		layoutView: layoutView{User: user},
		Message:    message,
	}, view.LayoutMain)
}
