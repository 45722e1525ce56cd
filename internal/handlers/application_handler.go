package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/services"
)

// ApplicationHandler handles job and internship applications
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// RegisterApplicationRoutes registers application routes
func (h *ApplicationHandler) RegisterApplicationRoutes(g *echo.Group) {
	g.POST("/applications", h.Apply)
	g.GET("/applications", h.GetMyApplications)
	g.GET("/applications/:id", h.GetApplication)
	g.DELETE("/applications/:id", h.DeleteApplication)
	g.PUT("/applications/:id/status", h.UpdateApplicationStatus)
	g.GET("/posts/:id/applications", h.GetPostApplications)
}

// Apply submits an application to a job or internship post
func (h *ApplicationHandler) Apply(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.ApplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.applicationService.Apply(c.Request().Context(), userID, req)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusCreated, app)
}

func (h *ApplicationHandler) GetMyApplications(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	apps, err := h.applicationService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, apps)
}

func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	app, err := h.applicationService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, app)
}

// DeleteApplication withdraws one of the caller's applications
func (h *ApplicationHandler) DeleteApplication(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.applicationService.Delete(c.Request().Context(), userID, id); err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateApplicationStatus is for the owner of the post applied to
func (h *ApplicationHandler) UpdateApplicationStatus(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateApplicationStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.applicationService.UpdateStatus(c.Request().Context(), userID, id, req.Status); err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ApplicationHandler) GetPostApplications(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	apps, err := h.applicationService.ListForPost(c.Request().Context(), userID, postID)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, apps)
}
