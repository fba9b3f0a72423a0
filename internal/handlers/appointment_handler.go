package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/httpresp"
	"github.com/BruksfildServices01/appointment-engine/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/appointment-engine/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	transition   *ucAppointment.TransitionAppointmentStatus
	get          *ucAppointment.GetAppointment
	listByDate   *ucAppointment.ListAppointmentsByDate
}

func NewAppointmentHandler(
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	transition *ucAppointment.TransitionAppointmentStatus,
	get *ucAppointment.GetAppointment,
	listByDate *ucAppointment.ListAppointmentsByDate,
) *AppointmentHandler {
	return &AppointmentHandler{
		availability: availability,
		create:       create,
		transition:   transition,
		get:          get,
		listByDate:   listByDate,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceIDs     []uint `json:"service_ids" binding:"required,min=1"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_"+name, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// serviceIDs accepts ?service_ids=1,2 as well as repeated ?service_ids=.
func serviceIDs(c *gin.Context) ([]uint, bool) {
	var ids []uint
	for _, raw := range c.QueryArray("service_ids") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				httperr.BadRequest(c, "invalid_service_ids", "service_ids must be numeric")
				return nil, false
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, true
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required")
		return
	}

	services, ok := serviceIDs(c)
	if !ok {
		return
	}
	professionalID, ok := queryID(c, "professional_id")
	if !ok {
		return
	}
	companyID, ok := queryID(c, "company_id")
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucAppointment.GetAvailabilityInput{
		Date:           date,
		ServiceIDs:     services,
		ProfessionalID: professionalID,
		CompanyID:      companyID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		UserID:         actor.UserID,
		ProfessionalID: req.ProfessionalID,
		ServiceIDs:     req.ServiceIDs,
		Date:           req.Date,
		Time:           req.Time,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "status is required")
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), ucAppointment.TransitionInput{
		AppointmentID: id,
		Status:        strings.ToUpper(req.Status),
		Actor:         middleware.ActorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	professionalID, ok := paramID(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required")
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), professionalID, date, middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}
