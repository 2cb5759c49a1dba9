package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"talksport/internal/auth"
	apperrors "talksport/internal/errors"
	"talksport/internal/service"
)

// PostHandler handles post and like endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest represents a new post.
type CreatePostRequest struct {
	MediaType string  `json:"mediaType" validate:"required" example:"PICTURE"`
	MediaURL  string  `json:"mediaUrl" validate:"required" example:"https://cdn.example.com/goal.png"`
	Caption   *string `json:"caption,omitempty"`
}

// UpdatePostRequest replaces a post's caption. An empty string clears it.
type UpdatePostRequest struct {
	Caption *string `json:"caption"`
}

// ListPosts godoc
// @Summary List posts
// @Description All posts, newest first, with author and likes.
// @Tags posts
// @Produce json
// @Success 200 {object} errors.SuccessResponse{data=[]model.Post}
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.ListPosts(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, apperrors.Success(posts, ""))
}

// GetPost godoc
// @Summary Get post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} errors.SuccessResponse{data=model.Post}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.postService.GetPost(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, apperrors.Success(post, ""))
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post data"
// @Success 201 {object} errors.SuccessResponse{data=model.Post}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return respondError(c, apperrors.ErrUnauthenticated)
	}

	var req CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	post, err := h.postService.CreatePost(c.Request().Context(), userID, req.MediaType, req.MediaURL, req.Caption)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, apperrors.Success(post, "post created"))
}

// UpdatePost godoc
// @Summary Update a post caption
// @Description Only the author may update a post.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "New caption"
// @Success 200 {object} errors.SuccessResponse{data=model.Post}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return respondError(c, apperrors.ErrUnauthenticated)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.Caption == nil {
		return respondError(c, fmt.Errorf("%w: caption is required", apperrors.ErrValidation))
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), id, userID, req.Caption)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, apperrors.Success(post, "post updated"))
}

// DeletePost godoc
// @Summary Delete a post
// @Description Only the author may delete a post. Its likes are removed with it.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} errors.SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return respondError(c, apperrors.ErrUnauthenticated)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.postService.DeletePost(c.Request().Context(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, apperrors.Success(nil, "post deleted"))
}

// ToggleLike godoc
// @Summary Like or unlike a post
// @Description Creates the caller's like when absent, removes it otherwise.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} errors.SuccessResponse{data=service.LikeResult}
// @Success 201 {object} errors.SuccessResponse{data=service.LikeResult}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id}/like [post]
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return respondError(c, apperrors.ErrUnauthenticated)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.postService.ToggleLike(c.Request().Context(), id, userID)
	if err != nil {
		return respondError(c, err)
	}

	if result.Action == service.LikeCreated {
		return c.JSON(http.StatusCreated, apperrors.Success(result, "Post liked successfully."))
	}
	return c.JSON(http.StatusOK, apperrors.Success(result, "Like removed (unliked)."))
}
