package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/studypilot/studypilot-back/docs"
	"github.com/studypilot/studypilot-back/internal/auth"
	"github.com/studypilot/studypilot-back/internal/cache"
	"github.com/studypilot/studypilot-back/internal/db"
	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/planner"
)

type Deps struct {
	Store       *db.Store
	Plans       *planner.Service
	Rescheduler *planner.Rescheduler
	Summaries   *cache.SummaryCache
	Tokens      *auth.Tokens
	Google      *auth.Google
	Log         *logger.Logger
	Now         func() time.Time
}

// Handler serves the /api routes. Every handler reads the caller's id from
// the auth middleware and scopes all store calls by it.
type Handler struct {
	store       *db.Store
	plans       *planner.Service
	rescheduler *planner.Rescheduler
	summaries   *cache.SummaryCache
	log         *logger.Logger
	now         func() time.Time
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		store:       d.Store,
		plans:       d.Plans,
		rescheduler: d.Rescheduler,
		summaries:   d.Summaries,
		log:         d.Log.With("component", "API"),
		now:         d.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func (h *Handler) today() string {
	return planner.FormatDate(planner.Today(h.now()))
}

// @title           StudyPilot API
// @version         1.0
// @description     Study plan generation, tracking and rescheduling.
// @host            localhost:8000
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func SetupRouter(d Deps) *gin.Engine {
	h := NewHandler(d)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		if err := d.Store.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "db_ping_error"})
			return
		}
		if err := d.Summaries.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "degraded", "cache": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Google login
	if d.Google != nil {
		r.GET("/auth/google/login", d.Google.LoginHandler())
		r.GET("/auth/google/callback", d.Google.CallbackHandler())
	}
	r.POST("/auth/refresh", auth.RefreshHandler(d.Tokens))

	// Protected, bearer token or guest id
	api := r.Group("/api")
	api.Use(auth.AuthMiddleware(d.Tokens))
	{
		api.POST("/plan/generate", h.GeneratePlan)
		api.GET("/plan", h.ListPlan)
		api.GET("/plan/missed", h.ListMissed)
		api.GET("/plan/summary", h.PlanSummary)
		api.GET("/plan/export", h.ExportPlan)
		api.POST("/plan/reschedule-missed", h.RescheduleMissed)
		api.PATCH("/plan/:id/complete", h.CompleteSession)
		api.PATCH("/plan/:id/reschedule", h.RescheduleSession)
		api.DELETE("/plan/:id", h.DeleteSession)

		api.POST("/onboarding/complete", h.CompleteOnboarding)
		api.GET("/user/profile", h.GetProfile)
		api.POST("/marks/import", h.ImportMarks)

		api.GET("/exam-schedule", h.ListExams)
		api.POST("/exam-schedule", h.CreateExam)
		api.PATCH("/exam-schedule/:id", h.UpdateExam)
		api.DELETE("/exam-schedule/:id", h.DeleteExam)

		api.GET("/exam-results", h.ListExamResults)
		api.POST("/exam-results", h.LogExamResults)
		api.DELETE("/exam-results/:id", h.DeleteExamResult)
		api.GET("/performance/trends", h.PerformanceTrends)

		api.GET("/syllabus", h.ListSyllabus)
		api.POST("/syllabus/save", h.SaveSyllabus)
		api.POST("/syllabus/add", h.AddSyllabusTopic)
		api.PATCH("/syllabus/:id/toggle", h.ToggleSyllabusTopic)
		api.DELETE("/syllabus/:id", h.DeleteSyllabusTopic)

		api.GET("/analytics", h.Analytics)

		api.GET("/privacy/data-summary", h.DataSummary)
		api.GET("/privacy/export-data", h.ExportData)
		api.DELETE("/privacy/delete-data", h.DeleteData)
	}

	return r
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}
