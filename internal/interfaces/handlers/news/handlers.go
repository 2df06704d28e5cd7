package news

import (
	"strings"

	newssvc "botsales-backend/internal/application/news"
	"botsales-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Feed *newssvc.Feed
}

type classifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// POST /api/v1/news/classify
func (h *Handlers) Classify(c *fiber.Ctx) error {
	var req classifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		return response.Error(c, "title or description is required", fiber.StatusBadRequest, nil)
	}
	return response.Success(c, "Article classified", newssvc.Classify(req.Title, req.Description), nil)
}

// GET /api/v1/news?category=&limit=
func (h *Handlers) List(c *fiber.Ctx) error {
	category := c.Query("category")
	articles := h.Feed.List(category, c.QueryInt("limit", newssvc.DefaultFeedLimit))
	return response.Success(c, "News fetched successfully", articles, fiber.Map{
		"total":    len(articles),
		"category": firstNonEmpty(category, "all"),
	})
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
