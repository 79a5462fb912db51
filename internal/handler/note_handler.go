package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hadirly/hadirly-api/internal/service"
	"github.com/hadirly/hadirly-api/pkg/response"
)

// NoteHandler exposes student note endpoints.
type NoteHandler struct {
	notes *service.NoteService
}

// NewNoteHandler constructs NoteHandler.
func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// ListByStudent godoc
// @Summary List notes for a student
// @Tags Notes
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/notes [get]
func (h *NoteHandler) ListByStudent(c *gin.Context) {
	notes, err := h.notes.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}
