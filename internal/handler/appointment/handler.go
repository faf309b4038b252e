package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/handler"
	"github.com/telemedly/telemed-api/internal/middleware"
	"github.com/telemedly/telemed-api/internal/model"
	appointmentsvc "github.com/telemedly/telemed-api/internal/service/appointment"
)

type Handler struct {
	service appointmentsvc.Service
}

func NewHandler(service appointmentsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	appointments := r.Group("/appointment")
	appointments.Use(auth.Authenticate())
	{
		appointments.POST("/", auth.RequireRole(model.RolePatient), h.Create)
		appointments.GET("/", auth.RequireRole(model.RolePatient), h.ListForPatient)
		appointments.GET("/appointments", auth.RequireRole(model.RoleDoctor), h.ListForDoctor)
		appointments.PUT("/:id", h.Update)
		appointments.DELETE("/:id", auth.RequireRole(model.RolePatient), h.Delete)
		appointments.PUT("/approve/:id", auth.RequireRole(model.RoleDoctor), h.Approve)
		appointments.PUT("/decline/:id", auth.RequireRole(model.RoleDoctor), h.Decline)
		appointments.GET("/join/:id", h.Join)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	appointment, err := h.service.Create(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, appointment, "Appointment created successfully")
}

func (h *Handler) ListForPatient(c *gin.Context) {
	appointments, err := h.service.ListForPatient(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, appointments, "Appointments fetched successfully")
}

func (h *Handler) ListForDoctor(c *gin.Context) {
	appointments, err := h.service.ListForDoctor(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, appointments, "Appointments fetched successfully")
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	appointment, err := h.service.Update(c.Request.Context(), id, middleware.UserIDFromContext(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, appointment, "Appointment updated successfully")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid appointment id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.UserIDFromContext(c)); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, true, "Appointment deleted successfully")
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid appointment id")
		return
	}

	appointment, err := h.service.Approve(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, appointment, "Appointment approved successfully")
}

func (h *Handler) Decline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid appointment id")
		return
	}

	appointment, err := h.service.Decline(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, appointment, "Appointment cancelled successfully")
}

func (h *Handler) Join(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid appointment id")
		return
	}

	room, err := h.service.Join(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, room, "Room fetched successfully")
}
