package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Michela-Labianco/timetable-simulation/internal/middleware"
	"github.com/Michela-Labianco/timetable-simulation/internal/repository"
	"github.com/Michela-Labianco/timetable-simulation/internal/service"
)

type courseRequest struct {
	Name string `form:"name" json:"name"`
}

// SubmitCourse is the standalone course-creation endpoint. It inserts
// unconditionally, so submitting the same name twice leaves two rows.
func (h HandlerSet) SubmitCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "course name required")
		return
	}

	if _, err := h.catalog.CreateCourse(c.Request.Context(), req.Name); err != nil {
		if errors.Is(err, service.ErrCourseNameRequired) {
			c.String(http.StatusBadRequest, "course name required")
			return
		}
		h.log.Error().Err(err).Msg("course creation failed")
		c.String(http.StatusInternalServerError, "Server Error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course saved successfully"})
}

// AddCourse is student self-enrollment: find-or-create the course, then
// append the reference unless the student already holds it.
func (h HandlerSet) AddCourse(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req courseRequest
	if err := c.ShouldBind(&req); err != nil || req.Name == "" {
		c.String(http.StatusBadRequest, "course name required")
		return
	}

	err := h.roster.Enroll(c.Request.Context(), user, req.Name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "course added and assigned to student"})
	case errors.Is(err, service.ErrCourseNameRequired):
		c.String(http.StatusBadRequest, "course name required")
	case errors.Is(err, repository.ErrProfileNotFound):
		c.String(http.StatusNotFound, "student not found")
	default:
		h.log.Error().Err(err).Msg("self-enrollment failed")
		c.String(http.StatusInternalServerError, "Server error")
	}
}
