package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michela-Labianco/timetable-simulation/internal/service"
)

type editRowRequest struct {
	Name   string `json:"name"`
	Course []struct {
		Name string `json:"name"`
	} `json:"course"`
}

type rowCourse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rowResponse struct {
	ID      string      `json:"id"`
	Kind    string      `json:"kind"`
	Email   string      `json:"email"`
	Name    string      `json:"name"`
	Courses []rowCourse `json:"course"`
}

// EditRow applies an admin inline edit to whichever roster collection
// holds the id. Course names that match no existing course are dropped
// from the stored reference list, mirroring the attach-only policy.
func (h HandlerSet) EditRow(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "row not found"})
		return
	}

	var req editRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid edit payload"})
		return
	}

	names := make([]string, 0, len(req.Course))
	for _, course := range req.Course {
		names = append(names, course.Name)
	}

	row, err := h.roster.EditRow(c.Request.Context(), id, req.Name, names)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "updated", "row": rowView(row)})
	case errors.Is(err, service.ErrRowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "row not found"})
	default:
		h.log.Error().Err(err).Str("row_id", id.Hex()).Msg("row edit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

// DeleteRow removes the row from whichever collection holds it; an id
// matching neither is still a success.
func (h HandlerSet) DeleteRow(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		// Nothing can match a malformed id; deletion is idempotent.
		c.JSON(http.StatusOK, gin.H{"message": "row deleted"})
		return
	}

	if err := h.roster.DeleteRow(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Str("row_id", id.Hex()).Msg("row delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "row deleted"})
}

func rowView(row service.RowView) rowResponse {
	courses := make([]rowCourse, 0, len(row.Courses))
	for _, course := range row.Courses {
		courses = append(courses, rowCourse{ID: course.ID.Hex(), Name: course.Name})
	}

	return rowResponse{
		ID:      row.Profile.ID.Hex(),
		Kind:    string(row.Kind),
		Email:   row.Profile.Email,
		Name:    row.Profile.Name,
		Courses: courses,
	}
}
