package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Michela-Labianco/timetable-simulation/internal/config"
	"github.com/Michela-Labianco/timetable-simulation/internal/middleware"
	"github.com/Michela-Labianco/timetable-simulation/internal/repository"
	"github.com/Michela-Labianco/timetable-simulation/internal/roles"
	"github.com/Michela-Labianco/timetable-simulation/internal/service"
	"github.com/Michela-Labianco/timetable-simulation/internal/session"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     *service.AuthService
	catalog  *service.CatalogService
	roster   *service.RosterService
	users    service.UserStore
	sessions service.SessionStore
	db       *mongo.Database
	cache    *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *mongo.Database, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sessionStore := session.NewRedisStore(cache, cfg.Session.TTL)

	catalog := service.NewCatalogService(courseRepo, log)
	roster := service.NewRosterService(teacherRepo, studentRepo, catalog, log)
	auth := service.NewAuthService(userRepo, teacherRepo, studentRepo, sessionStore, cfg.Security.BcryptCost, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		auth:     auth,
		catalog:  catalog,
		roster:   roster,
		users:    userRepo,
		sessions: sessionStore,
		db:       db,
		cache:    cache,
	}
}

// Routes attaches session loading plus the full HTTP surface to the
// engine. Dashboards are page-gated per role; the inline-edit endpoints
// mirror the original surface, which left edit-row and delete-row open.
func (h HandlerSet) Routes(engine *gin.Engine) {
	engine.Use(middleware.LoadSession(h.cfg.Session.CookieName, h.sessions, h.users, h.log))

	engine.GET("/healthz", h.Health)

	engine.GET("/", h.Landing)
	engine.GET("/admin", middleware.RequirePage(roles.RoleAdmin), h.AdminDashboard)
	engine.GET("/teacher", middleware.RequirePage(roles.RoleTeacher), h.TeacherDashboard)
	engine.GET("/student", middleware.RequirePage(roles.RoleStudent), h.StudentDashboard)
	engine.GET("/logout", h.Logout)

	engine.POST("/register", h.Register)
	engine.POST("/login", h.Login)
	engine.POST("/submit", h.SubmitCourse)
	engine.POST("/student/add-course", middleware.RequireSession(), h.AddCourse)

	engine.PUT("/edit-row/:id", h.EditRow)
	engine.DELETE("/delete-row/:id", h.DeleteRow)
}
