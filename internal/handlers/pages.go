package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Michela-Labianco/timetable-simulation/internal/middleware"
	"github.com/Michela-Labianco/timetable-simulation/internal/repository"
)

func (h HandlerSet) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"message": nil})
}

func (h HandlerSet) AdminDashboard(c *gin.Context) {
	roster, err := h.roster.LoadRoster(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("load roster failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"teachers": roster.Teachers,
		"students": roster.Students,
		"courses":  roster.Courses,
	})
}

func (h HandlerSet) TeacherDashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	view, err := h.roster.LoadProfile(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.String(http.StatusNotFound, "Teacher not found")
			return
		}
		h.log.Error().Err(err).Msg("load teacher profile failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	c.HTML(http.StatusOK, "teacher.html", gin.H{"teacher": view})
}

func (h HandlerSet) StudentDashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	view, err := h.roster.LoadProfile(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.String(http.StatusNotFound, "Student not found")
			return
		}
		h.log.Error().Err(err).Msg("load student profile failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("load course catalog failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	c.HTML(http.StatusOK, "student.html", gin.H{
		"student": view,
		"courses": courses,
	})
}
