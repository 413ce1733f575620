package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Vamshik07/marketmind/internal/config"
	"github.com/Vamshik07/marketmind/internal/middleware"
	"github.com/Vamshik07/marketmind/internal/model"
	"github.com/Vamshik07/marketmind/internal/service"
)

// HistoryHandler serves the per-user activity history API. Every
// operation reads the identity from the request context; there is no
// way to address another user's entries.
type HistoryHandler struct {
	History *service.HistoryService
	Cache   config.CacheConfig
	Redis   *redis.Client // nil disables cache invalidation
}

func NewHistoryHandler(hist *service.HistoryService, cache config.CacheConfig, rdb *redis.Client) *HistoryHandler {
	return &HistoryHandler{History: hist, Cache: cache, Redis: rdb}
}

type trackReq struct {
	PageURL   string `json:"page_url"`
	PageTitle string `json:"page_title"`
}

// Grouped returns the user's recent activity bucketed into
// Today / Yesterday / This week / Older.
func (h *HistoryHandler) Grouped(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	grouped, err := h.History.Grouped(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": grouped})
}

// Archive serves the wider archive view of the same entries, bucketed
// into Today / Yesterday / This week / This month / Earlier.
func (h *HistoryHandler) Archive(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	grouped, err := h.History.GroupedArchive(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": grouped})
}

// DeleteOne removes a single entry the user owns. A missing entry and
// someone else's entry are the same 404; existence of foreign entries
// is never revealed.
func (h *HistoryHandler) DeleteOne(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || entryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	removed, err := h.History.DeleteOne(ctx, uid, entryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "History item not found"})
	}
	middleware.InvalidateUserCache(ctx, h.Cache, h.Redis, uid)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "History item deleted"})
}

// Clear removes every entry the user owns, then records the clearing
// itself as a new history entry.
func (h *HistoryHandler) Clear(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.History.ClearAll(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "clear failed"})
	}
	if _, err := h.History.Record(ctx, model.HistoryEntry{
		UserID:     uid,
		PageURL:    "/api/history/clear",
		PageTitle:  "Clear History",
		ActionType: model.ActionHistoryCleared,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}); err != nil {
		c.Logger().Errorf("clear: history record for user %d failed: %v", uid, err)
	}
	middleware.InvalidateUserCache(ctx, h.Cache, h.Redis, uid)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "All history cleared"})
}

// Track records a page visit for the authenticated user. Anonymous
// visitors get a success response but nothing is stored; their
// activity is not part of the history subsystem.
func (h *HistoryHandler) Track(c echo.Context) error {
	var req trackReq
	if err := c.Bind(&req); err != nil || req.PageURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "page_url required"})
	}

	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "recorded": false})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.History.Record(ctx, model.HistoryEntry{
		UserID:     uid,
		PageURL:    req.PageURL,
		PageTitle:  req.PageTitle,
		ActionType: model.ActionVisit,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "record failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "recorded": true})
}
