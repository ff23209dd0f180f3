package controller

import (
	"view-analytics-service/internal/model"
	"view-analytics-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ViewController interface {
	RecordView(c *fiber.Ctx) error
	RecordProgress(c *fiber.Ctx) error
	GetPlayerAnalytics(c *fiber.Ctx) error
	GetMostWatched(c *fiber.Ctx) error
	GetViewCounts(c *fiber.Ctx) error
}

// viewController exposes HTTP handlers for telemetry ingestion and
// analytics queries.
type viewController struct {
	analytics service.AnalyticsService
}

// NewViewController builds a ViewController.
func NewViewController(svc service.AnalyticsService) ViewController {
	return &viewController{analytics: svc}
}

// RecordView accepts the create write of a playback session.
func (h *viewController) RecordView(c *fiber.Ctx) error {
	var req model.RecordViewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	row, err := h.analytics.BuildView(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.analytics.Record(c.Context(), row)

	return c.SendStatus(fiber.StatusAccepted)
}

// RecordProgress accepts periodic watch-time updates for a session.
func (h *viewController) RecordProgress(c *fiber.Ctx) error {
	var req model.ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	row, err := h.analytics.BuildProgress(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.analytics.Record(c.Context(), row)

	return c.SendStatus(fiber.StatusAccepted)
}

// GetPlayerAnalytics returns the per-player view rollup. Players without
// views get a well-formed zero-valued body, never an error.
func (h *viewController) GetPlayerAnalytics(c *fiber.Ctx) error {
	playerID := c.Params("id")
	if playerID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "player id is required")
	}

	return c.JSON(h.analytics.PlayerAnalytics(c.Context(), playerID))
}

// GetMostWatched returns the ranked leaderboard plus platform stats.
func (h *viewController) GetMostWatched(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be positive")
	}

	return c.JSON(h.analytics.MostWatched(c.Context(), limit))
}

// GetViewCounts returns total views per player for bulk display annotation.
func (h *viewController) GetViewCounts(c *fiber.Ctx) error {
	return c.JSON(h.analytics.ViewCounts(c.Context()))
}
