package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hadirly/hadirly-api/internal/service"
	appErrors "github.com/hadirly/hadirly-api/pkg/errors"
	"github.com/hadirly/hadirly-api/pkg/response"
)

// ClassHandler exposes class and class manager endpoints.
type ClassHandler struct {
	classes *service.ClassService
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(classes *service.ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classes.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Get godoc
// @Summary Get class detail
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.classes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Managers godoc
// @Summary List class managers
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/managers [get]
func (h *ClassHandler) Managers(c *gin.Context) {
	managers, err := h.classes.Managers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, managers, nil)
}

// AssignManager godoc
// @Summary Assign a manager to a class
// @Tags Classes
// @Accept json
// @Param id path string true "Class ID"
// @Param payload body service.AssignManagerRequest true "Manager payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{id}/managers [post]
func (h *ClassHandler) AssignManager(c *gin.Context) {
	var req service.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.classes.AssignManager(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"classId": c.Param("id"), "userId": req.UserID})
}

// RemoveManager godoc
// @Summary Remove a manager from a class
// @Tags Classes
// @Param id path string true "Class ID"
// @Param userId path string true "User ID"
// @Success 204
// @Router /classes/{id}/managers/{userId} [delete]
func (h *ClassHandler) RemoveManager(c *gin.Context) {
	if err := h.classes.RemoveManager(c.Request.Context(), c.Param("id"), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
