package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/handler"
	"github.com/telemedly/telemed-api/internal/middleware"
	"github.com/telemedly/telemed-api/internal/model"
	chatsvc "github.com/telemedly/telemed-api/internal/service/chat"
)

type Handler struct {
	service chatsvc.Service
}

func NewHandler(service chatsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	chats := r.Group("/chat")
	chats.Use(auth.Authenticate())
	{
		chats.GET("/", h.List)
		chats.POST("/send", h.Send)
		chats.DELETE("/delete/:id", h.Delete)
	}
}

func (h *Handler) Send(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.service.Send(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, message, "Message sent successfully")
}

func (h *Handler) List(c *gin.Context) {
	messages, err := h.service.ListForUser(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, messages, "Messages fetched successfully")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Fail(c, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.UserIDFromContext(c)); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, true, "Message deleted successfully")
}
