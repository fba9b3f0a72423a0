package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/appointment-engine/internal/cache"
	"github.com/BruksfildServices01/appointment-engine/internal/config"
	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/handlers"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/appointment-engine/internal/usecase/appointment"
)

// Dependencies are the singletons built in main.
type Dependencies struct {
	Config *config.Config
	Repo   domain.Repository
	Events ucAppointment.EventDispatcher
	Slots  cache.SlotCache
	Clock  ucAppointment.Clock
	Log    zerolog.Logger
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.CORSMiddleware(deps.Config.CORSOrigins))

	policy := deps.Config.Policy()

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(
		deps.Repo,
		deps.Slots,
		policy,
		deps.Clock,
		deps.Log,
	)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		deps.Repo,
		deps.Events,
		deps.Slots,
		policy,
		deps.Clock,
		deps.Log,
	)

	transitionUC := ucAppointment.NewTransitionAppointmentStatus(
		deps.Repo,
		deps.Events,
		deps.Slots,
		policy,
		deps.Clock,
		deps.Log,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(deps.Repo)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(deps.Repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		availabilityUC,
		createAppointmentUC,
		transitionUC,
		getAppointmentUC,
		listAppointmentsByDateUC,
	)

	// ======================================================
	// INFRA
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, "route_not_found", "No route for "+c.Request.Method+" "+c.Request.URL.Path+".")
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/availability", appointmentHandler.Availability)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(deps.Config.JWTSecret))
		{
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)

			secured.GET("/professionals/:id/appointments", appointmentHandler.ListByDate)
		}
	}
}
