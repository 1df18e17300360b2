package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michela-Labianco/timetable-simulation/internal/models"
	"github.com/Michela-Labianco/timetable-simulation/internal/repository"
	"github.com/Michela-Labianco/timetable-simulation/internal/roles"
	"github.com/Michela-Labianco/timetable-simulation/internal/service"
	"github.com/Michela-Labianco/timetable-simulation/internal/session"
)

// Context keys set by LoadSession.
const (
	CtxSession = "current_session"
	CtxUser    = "current_user"
)

// LoadSession resolves the session cookie into a session record and a
// freshly loaded user. The user is fetched from the credential store on
// every request: role is authoritative there, never in the session
// payload. Missing or expired cookies are not errors; routes decide what
// an anonymous request gets.
func LoadSession(cookieName string, sessions service.SessionStore, users service.UserStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}

		sess, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Error().Err(err).Msg("session lookup failed")
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Next()
			return
		}
		c.Set(CtxSession, sess)

		userID, err := primitive.ObjectIDFromHex(sess.UserID)
		if err != nil {
			// Malformed session payload: authenticated but unresolvable.
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, repository.ErrUserNotFound) {
				log.Error().Err(err).Msg("session user lookup failed")
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Next()
			return
		}
		c.Set(CtxUser, user)

		c.Next()
	}
}

// RequirePage gates a server-rendered dashboard. Anonymous requests are
// redirected to the landing page; a session whose user is gone or whose
// role does not match gets a plain 403, never the page.
func RequirePage(role roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(CtxSession); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		user, ok := CurrentUser(c)
		if !ok || user.Role != role {
			c.String(http.StatusForbidden, "Access denied")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSession gates a JSON endpoint: 401 when no authenticated user
// resolved, with no role restriction.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.String(http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(CtxUser)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

func CurrentSession(c *gin.Context) (models.Session, bool) {
	val, ok := c.Get(CtxSession)
	if !ok {
		return models.Session{}, false
	}
	sess, ok := val.(models.Session)
	return sess, ok
}
