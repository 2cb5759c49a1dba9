package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"talksport/internal/auth"
	apperrors "talksport/internal/errors"
	"talksport/internal/service"
)

// FeedHandler serves the dashboard feed.
type FeedHandler struct {
	feedService service.FeedService
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feedService service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// GetFeed godoc
// @Summary Dashboard feed
// @Description Posts with like counts and the notification count. isLiked is relative to the session, if any.
// @Tags feed
// @Produce json
// @Success 200 {object} errors.SuccessResponse{data=service.Feed}
// @Failure 500 {object} errors.ErrorResponse
// @Router /feed [get]
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID, _ := auth.UserID(c)

	feed, err := h.feedService.Assemble(c.Request().Context(), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, apperrors.Success(feed, ""))
}
