package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts) // optional ?type=, ?user_id=, ?skip=, ?limit=
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a public, job or internship post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), userID, req)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.postService.Get(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, post)
}

// GetPosts retrieves multiple posts
func (h *PostHandler) GetPosts(c echo.Context) error {
	q := services.PostQuery{Kind: models.PostKind(c.QueryParam("type"))}
	if q.Kind != "" && q.Kind != models.PostKindPublic && q.Kind != models.PostKindJob && q.Kind != models.PostKindInternship {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post type")
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		uid, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user_id")
		}
		q.UserID = uint(uid)
	}
	q.Skip, _ = strconv.Atoi(c.QueryParam("skip"))
	q.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	posts, err := h.postService.List(c.Request().Context(), getUserIDFromContext(c), q)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, posts)
}

// UpdatePost edits a post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Update(c.Request().Context(), userID, id, req)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.postService.Delete(c.Request().Context(), userID, id); err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
