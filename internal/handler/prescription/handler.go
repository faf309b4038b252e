package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/handler"
	"github.com/telemedly/telemed-api/internal/middleware"
	"github.com/telemedly/telemed-api/internal/model"
	prescriptionsvc "github.com/telemedly/telemed-api/internal/service/prescription"
)

type Handler struct {
	service prescriptionsvc.Service
}

func NewHandler(service prescriptionsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	prescriptions := r.Group("/prescription")
	prescriptions.Use(auth.Authenticate())
	{
		prescriptions.POST("/", auth.RequireRole(model.RoleDoctor), h.Create)
		prescriptions.GET("/", h.List)
		prescriptions.GET("/:id", h.Get)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	prescription, err := h.service.Create(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, prescription, "Prescription created successfully")
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid prescription id")
		return
	}

	prescription, err := h.service.Get(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, prescription, "Prescription fetched successfully")
}

func (h *Handler) List(c *gin.Context) {
	prescriptions, err := h.service.ListForUser(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, prescriptions, "Prescriptions fetched successfully")
}
