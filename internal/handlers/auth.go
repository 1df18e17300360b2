package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Michela-Labianco/timetable-simulation/internal/middleware"
	"github.com/Michela-Labianco/timetable-simulation/internal/service"
)

type registerRequest struct {
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid registration form")
		return
	}

	err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	switch {
	case err == nil:
		c.HTML(http.StatusOK, "index.html", gin.H{
			"message": "Registration successful. Please log in.",
		})
	case errors.Is(err, service.ErrInvalidEmailDomain),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrEmailTaken):
		c.String(http.StatusBadRequest, capitalizeErr(err))
	default:
		h.log.Error().Err(err).Msg("registration failed")
		c.String(http.StatusInternalServerError, "Error registering user")
	}
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid login form")
		return
	}

	sess, user, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(
			h.cfg.Session.CookieName,
			sess.ID,
			int(h.cfg.Session.TTL.Seconds()),
			"/",
			"",
			h.cfg.Session.Secure,
			true,
		)
		c.Redirect(http.StatusFound, "/"+string(user.Role))
	case errors.Is(err, service.ErrInvalidEmailDomain):
		c.String(http.StatusBadRequest, capitalizeErr(err))
	case errors.Is(err, service.ErrUnknownUser), errors.Is(err, service.ErrWrongPassword):
		c.String(http.StatusUnauthorized, capitalizeErr(err))
	default:
		h.log.Error().Err(err).Msg("login failed")
		c.String(http.StatusInternalServerError, "Login error")
	}
}

func (h HandlerSet) Logout(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if ok {
		if err := h.auth.Logout(c.Request.Context(), sess.ID); err != nil {
			h.log.Error().Err(err).Msg("session destroy failed")
			c.String(http.StatusInternalServerError, "Error logging out")
			return
		}
	}

	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.Secure, true)
	c.Redirect(http.StatusFound, "/")
}

// capitalizeErr turns a sentinel error into the user-facing message the
// forms expect ("user already exists" -> "User already exists").
func capitalizeErr(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	if msg[0] >= 'a' && msg[0] <= 'z' {
		return string(msg[0]-'a'+'A') + msg[1:]
	}
	return msg
}
