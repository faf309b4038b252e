package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemedly/telemed-api/internal/handler"
	"github.com/telemedly/telemed-api/internal/middleware"
	"github.com/telemedly/telemed-api/internal/model"
	doctorsvc "github.com/telemedly/telemed-api/internal/service/doctor"
)

type Handler struct {
	service doctorsvc.Service
}

func NewHandler(service doctorsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	doctors := r.Group("/doctor")
	{
		doctors.GET("/getDoctor", h.Directory)
		doctors.GET("/getDoctorBycity", auth.Authenticate(), h.Nearby)
		doctors.GET("/", auth.Authenticate(), auth.RequireRole(model.RoleDoctor), h.Dashboard)
	}
}

// Directory is public: the doctor listing shown before login.
func (h *Handler) Directory(c *gin.Context) {
	doctors, err := h.service.Directory(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, doctors, "Doctors fetched successfully")
}

func (h *Handler) Nearby(c *gin.Context) {
	result, err := h.service.FindNearby(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, result, "Nearby doctors fetched successfully")
}

func (h *Handler) Dashboard(c *gin.Context) {
	snapshot, err := h.service.Dashboard(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, snapshot, "Dashboard fetched successfully")
}
