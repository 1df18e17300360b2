package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michela-Labianco/timetable-simulation/internal/config"
	"github.com/Michela-Labianco/timetable-simulation/internal/models"
	"github.com/Michela-Labianco/timetable-simulation/internal/roles"
	"github.com/Michela-Labianco/timetable-simulation/internal/service"
	"github.com/Michela-Labianco/timetable-simulation/internal/storetest"
)

const testCookie = "timetable_session"

type appFixture struct {
	engine   *gin.Engine
	users    *storetest.UserStore
	teachers *storetest.ProfileStore
	students *storetest.ProfileStore
	courses  *storetest.CourseStore
	sessions *storetest.SessionStore
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := storetest.NewUserStore()
	teachers := storetest.NewProfileStore()
	students := storetest.NewProfileStore()
	courses := storetest.NewCourseStore()
	sessions := storetest.NewSessionStore()

	logger := zerolog.Nop()
	catalog := service.NewCatalogService(courses, logger)
	roster := service.NewRosterService(teachers, students, catalog, logger)
	auth := service.NewAuthService(users, teachers, students, sessions, 4, logger)

	cfg := &config.AppConfig{
		Environment: "test",
		Session: config.SessionConfig{
			CookieName: testCookie,
			TTL:        time.Hour,
		},
	}

	h := HandlerSet{
		log:      logger,
		cfg:      cfg,
		auth:     auth,
		catalog:  catalog,
		roster:   roster,
		users:    users,
		sessions: sessions,
	}

	engine := gin.New()
	engine.LoadHTMLGlob("../../web/templates/*.html")
	h.Routes(engine)

	return &appFixture{
		engine:   engine,
		users:    users,
		teachers: teachers,
		students: students,
		courses:  courses,
		sessions: sessions,
	}
}

// seedUser writes a credential row and matching roster profile directly,
// returning a live session id for the user.
func (f *appFixture) seedUser(t *testing.T, email string, role roles.Role) (models.User, string) {
	t.Helper()
	ctx := context.Background()

	user, err := f.users.Create(ctx, models.User{Email: email, Role: role})
	require.NoError(t, err)

	profile := models.Profile{Email: email, Name: roles.DisplayName(email), Role: role}
	switch role {
	case roles.RoleTeacher:
		_, err = f.teachers.Create(ctx, profile)
		require.NoError(t, err)
	case roles.RoleStudent:
		_, err = f.students.Create(ctx, profile)
		require.NoError(t, err)
	}

	sess, err := f.sessions.Create(ctx, user)
	require.NoError(t, err)
	return user, sess.ID
}

func (f *appFixture) do(method, path, sessionID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionID})
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestDashboardsRedirectWithoutSession(t *testing.T) {
	f := newAppFixture(t)

	for _, path := range []string{"/admin", "/teacher", "/student"} {
		rec := f.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}
}

func TestDashboardWrongRoleForbidden(t *testing.T) {
	f := newAppFixture(t)

	_, studentSess := f.seedUser(t, "jane@learning.net", roles.RoleStudent)
	_, teacherSess := f.seedUser(t, "bob@teacher.org", roles.RoleTeacher)

	rec := f.do(http.MethodGet, "/admin", studentSess, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dashboard")

	rec = f.do(http.MethodGet, "/student", teacherSess, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardStaleSessionForbidden(t *testing.T) {
	f := newAppFixture(t)

	// Session referencing a user that no longer exists in the credential
	// store: authenticated but unresolvable, so forbidden rather than
	// redirected.
	ghost := models.User{ID: primitive.NewObjectID(), Email: "ghost@admin.co", Role: roles.RoleAdmin}
	sess, err := f.sessions.Create(context.Background(), ghost)
	require.NoError(t, err)

	rec := f.do(http.MethodGet, "/admin", sess.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminDashboardRenders(t *testing.T) {
	f := newAppFixture(t)

	_, adminSess := f.seedUser(t, "root@admin.co", roles.RoleAdmin)
	f.seedUser(t, "bob@teacher.org", roles.RoleTeacher)
	f.seedUser(t, "jane@learning.net", roles.RoleStudent)

	rec := f.do(http.MethodGet, "/admin", adminSess, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bob@teacher.org")
	assert.Contains(t, rec.Body.String(), "jane@learning.net")
}

func TestTeacherDashboardMissingProfile(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	// Credential row without a roster row: the registration gap.
	user, err := f.users.Create(ctx, models.User{Email: "bob@teacher.org", Role: roles.RoleTeacher})
	require.NoError(t, err)
	sess, err := f.sessions.Create(ctx, user)
	require.NoError(t, err)

	rec := f.do(http.MethodGet, "/teacher", sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	f := newAppFixture(t)

	rec := f.do(http.MethodPost, "/register", "", gin.H{
		"email": "jane@learning.net", "password": "pw", "confirmPassword": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.users.Count())

	rec = f.do(http.MethodPost, "/register", "", gin.H{
		"email": "jane@learning.net", "password": "pw", "confirmPassword": "pw",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Registration successful")
	assert.Equal(t, 1, f.users.Count())
	assert.Equal(t, 1, f.students.Count())

	rec = f.do(http.MethodPost, "/register", "", gin.H{
		"email": "jane@learning.net", "password": "pw", "confirmPassword": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, f.users.Count())
}

func TestLoginSetsCookieAndRedirects(t *testing.T) {
	f := newAppFixture(t)

	rec := f.do(http.MethodPost, "/register", "", gin.H{
		"email": "jane@learning.net", "password": "pw", "confirmPassword": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/login", "", gin.H{
		"email": "jane@learning.net", "password": "pw",
	})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/student", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, testCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestLoginBadPassword(t *testing.T) {
	f := newAppFixture(t)

	rec := f.do(http.MethodPost, "/register", "", gin.H{
		"email": "jane@learning.net", "password": "pw", "confirmPassword": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/login", "", gin.H{
		"email": "jane@learning.net", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, f.sessions.Count())
}

func TestLogoutDestroysSession(t *testing.T) {
	f := newAppFixture(t)

	_, sess := f.seedUser(t, "jane@learning.net", roles.RoleStudent)

	rec := f.do(http.MethodGet, "/logout", sess, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, 0, f.sessions.Count())

	rec = f.do(http.MethodGet, "/student", sess, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAddCourseRequiresSession(t *testing.T) {
	f := newAppFixture(t)

	rec := f.do(http.MethodPost, "/student/add-course", "", gin.H{"name": "Math"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddCourseFlow(t *testing.T) {
	f := newAppFixture(t)

	_, sess := f.seedUser(t, "jane@learning.net", roles.RoleStudent)

	rec := f.do(http.MethodPost, "/student/add-course", sess, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/student/add-course", sess, gin.H{"name": "Chemistry"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.courses.CountByName("Chemistry"))

	rec = f.do(http.MethodPost, "/student/add-course", sess, gin.H{"name": "Chemistry"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.courses.CountByName("Chemistry"))

	profile, err := f.students.FindByEmail(context.Background(), "jane@learning.net")
	require.NoError(t, err)
	assert.Len(t, profile.Courses, 1)
}

func TestAddCourseWithoutProfile(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	user, err := f.users.Create(ctx, models.User{Email: "jane@learning.net", Role: roles.RoleStudent})
	require.NoError(t, err)
	sess, err := f.sessions.Create(ctx, user)
	require.NoError(t, err)

	rec := f.do(http.MethodPost, "/student/add-course", sess.ID, gin.H{"name": "Math"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitCourseUnconditionalInsert(t *testing.T) {
	f := newAppFixture(t)

	rec := f.do(http.MethodPost, "/submit", "", gin.H{"name": "Math"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPost, "/submit", "", gin.H{"name": "Math"})
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, f.courses.CountByName("Math"))
}

func TestEditRowEndpoint(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	_, err := f.courses.Insert(ctx, "Math")
	require.NoError(t, err)
	_, err = f.courses.Insert(ctx, "Biology")
	require.NoError(t, err)

	teacher, err := f.teachers.Create(ctx, models.Profile{
		Email: "bob@teacher.org", Name: "bob", Role: roles.RoleTeacher,
	})
	require.NoError(t, err)

	rec := f.do(http.MethodPut, "/edit-row/"+teacher.ID.Hex(), "", gin.H{
		"name": "Robert",
		"course": []gin.H{
			{"name": "Math"}, {"name": "Biology"}, {"name": "Nonexistent"},
		},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Row     struct {
			Name   string `json:"name"`
			Kind   string `json:"kind"`
			Course []struct {
				Name string `json:"name"`
			} `json:"course"`
		} `json:"row"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "updated", resp.Message)
	assert.Equal(t, "Robert", resp.Row.Name)
	assert.Equal(t, "teacher", resp.Row.Kind)
	require.Len(t, resp.Row.Course, 2)
	assert.Equal(t, "Math", resp.Row.Course[0].Name)
	assert.Equal(t, "Biology", resp.Row.Course[1].Name)
}

func TestEditRowUnknownID(t *testing.T) {
	f := newAppFixture(t)

	rec := f.do(http.MethodPut, "/edit-row/"+primitive.NewObjectID().Hex(), "", gin.H{
		"name": "X", "course": []gin.H{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRowEndpoint(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	student, err := f.students.Create(ctx, models.Profile{
		Email: "jane@learning.net", Name: "jane", Role: roles.RoleStudent,
	})
	require.NoError(t, err)

	rec := f.do(http.MethodDelete, "/delete-row/"+student.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.students.Count())

	rec = f.do(http.MethodDelete, "/delete-row/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLandingPage(t *testing.T) {
	f := newAppFixture(t)

	rec := f.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "register-form")
}

func TestHealthEndpoint(t *testing.T) {
	f := newAppFixture(t)

	rec := f.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
