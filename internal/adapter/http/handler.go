package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/metrics"
	"resume-renderer/internal/model"
	"resume-renderer/internal/render"
	"resume-renderer/internal/templates"

	"github.com/gofiber/fiber/v2"
)

// Renderer is the part of render.Driver the handlers need.
type Renderer interface {
	GeneratePDF(ctx context.Context, r *model.Resume, templateID string) ([]byte, error)
	ComposeHTML(r *model.Resume, templateID string) (string, error)
	Templates() *templates.Registry
	Stats() render.Stats
}

// RenderLog lists past renders.
type RenderLog interface {
	Recent(ctx context.Context, limit int) ([]domain.RenderJob, error)
}

type Handler struct {
	renderer Renderer
	log      RenderLog
}

func NewHandler(r Renderer, log RenderLog) *Handler {
	return &Handler{renderer: r, log: log}
}

// Register mounts the routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/pdf", h.GeneratePDF)
	app.Post("/preview", h.Preview)
	app.Get("/templates", h.ListTemplates)
	app.Get("/templates/:id", h.GetTemplate)
	app.Get("/renders", h.RecentRenders)
	app.Get("/healthz", h.Health)
	app.Get("/metrics", metrics.Handler())
}

type renderReq struct {
	TemplateID string          `json:"templateId"`
	Resume     json.RawMessage `json:"resume"`
}

// decode validates the embedded resume against the schema before decoding
// it, so the renderer only sees well-formed input.
func (h *Handler) decode(c *fiber.Ctx) (*model.Resume, string, error) {
	var req renderReq
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if len(req.Resume) == 0 || string(req.Resume) == "null" {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "resume is required")
	}
	r, err := model.Decode(req.Resume)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return r, req.TemplateID, nil
}

func (h *Handler) GeneratePDF(c *fiber.Ctx) error {
	r, templateID, err := h.decode(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.renderer.GeneratePDF(c.UserContext(), r, templateID)
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+r.FileName("pdf")+`"`)
	return c.Status(fiber.StatusOK).Send(out)
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	r, templateID, err := h.decode(c)
	if err != nil {
		return writeError(c, err)
	}
	html, err := h.renderer.ComposeHTML(r, templateID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

// ListTemplates filters the catalog by ?tier=free|premium and ?category=.
func (h *Handler) ListTemplates(c *fiber.Ctx) error {
	reg := h.renderer.Templates()

	var list []templates.Template
	switch tier := strings.ToLower(c.Query("tier")); tier {
	case "":
		list = reg.All()
	case "free":
		list = reg.ListFree()
	case "premium":
		list = reg.ListPremium()
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid tier"})
	}

	if cat := strings.ToLower(c.Query("category")); cat != "" {
		filtered := list[:0:0]
		for _, t := range list {
			if string(t.Category) == cat {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}
	if list == nil {
		list = []templates.Template{}
	}
	return c.JSON(fiber.Map{"templates": list, "default": reg.Default().ID})
}

func (h *Handler) GetTemplate(c *fiber.Ctx) error {
	reg := h.renderer.Templates()
	id, known := reg.Resolve(c.Params("id"))
	if !known {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "template not found"})
	}
	return c.JSON(reg.Lookup(id))
}

func (h *Handler) RecentRenders(c *fiber.Ctx) error {
	if h.log == nil {
		return c.JSON(fiber.Map{"renders": []domain.RenderJob{}})
	}
	jobs, err := h.log.Recent(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		slog.Error("Listing renders failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list renders"})
	}
	if jobs == nil {
		jobs = []domain.RenderJob{}
	}
	return c.JSON(fiber.Map{"renders": jobs})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "stats": h.renderer.Stats()})
}

// writeError maps errors to responses. Render failures get a generic
// message; the details are already in the logs.
func writeError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, render.ErrRender):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": render.ErrRender.Error()})
	default:
		slog.Error("Request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
