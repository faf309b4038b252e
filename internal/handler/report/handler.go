package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemedly/telemed-api/internal/handler"
	"github.com/telemedly/telemed-api/internal/middleware"
	"github.com/telemedly/telemed-api/internal/model"
	reportsvc "github.com/telemedly/telemed-api/internal/service/report"
)

type Handler struct {
	service reportsvc.Service
}

func NewHandler(service reportsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	reports := r.Group("/report")
	reports.Use(auth.Authenticate())
	{
		reports.POST("/add", h.Add)
		reports.GET("/getReports", h.List)
	}
}

func (h *Handler) Add(c *gin.Context) {
	var req model.AddReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.Add(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, report, "Report added successfully")
}

func (h *Handler) List(c *gin.Context) {
	reports, err := h.service.ListForUser(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, reports, "Reports fetched successfully")
}
