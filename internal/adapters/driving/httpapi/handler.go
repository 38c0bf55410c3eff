package httpapi

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

var validate = validator.New()

// AskRequest is the body of POST /api/v1/ask.
type AskRequest struct {
	URL   string `json:"url" validate:"required"`
	Query string `json:"query" validate:"required,max=4000"`
}

// AskResponse is returned by POST /api/v1/ask.
type AskResponse struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title,omitempty"`
	Answer   string `json:"answer"`
	CacheHit bool   `json:"cache_hit"`
	Chunks   int    `json:"chunks"`
	Model    string `json:"model,omitempty"`
}

// IndexRequest is the body of POST /api/v1/index.
type IndexRequest struct {
	URL string `json:"url" validate:"required"`
}

// IndexResponse is returned by POST /api/v1/index.
type IndexResponse struct {
	URL    string `json:"url"`
	Chunks int    `json:"chunks"`
}

type handler struct {
	ports *Ports
}

func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) ask(c *fiber.Ctx) error {
	var req AskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	answer, err := h.ports.Questions.Ask(c.UserContext(), req.Query, req.URL)
	if err != nil {
		return err
	}

	return c.JSON(toAskResponse(answer))
}

func (h *handler) index(c *fiber.Ctx) error {
	var req IndexRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	chunks, err := h.ports.Questions.Ingest(c.UserContext(), req.URL)
	if err != nil {
		return err
	}

	return c.JSON(IndexResponse{URL: req.URL, Chunks: chunks})
}

func (h *handler) reset(c *fiber.Ctx) error {
	if err := h.ports.Questions.Reset(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	fields := make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, e := range verrs {
		name := jsonName(e.Field())
		fields[name] = e.Tag()
		names = append(names, name)
	}
	sort.Strings(names)

	apiErr := NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid fields: %v", names))
	apiErr.Fields = fields
	return apiErr
}

func jsonName(field string) string {
	switch field {
	case "URL":
		return "url"
	case "Query":
		return "query"
	default:
		return field
	}
}

func toAskResponse(a *domain.Answer) AskResponse {
	return AskResponse{
		VideoID:  a.VideoID.String(),
		Title:    a.Title,
		Answer:   a.Text,
		CacheHit: a.CacheHit,
		Chunks:   a.Chunks,
		Model:    a.Model,
	}
}
