package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemedly/telemed-api/internal/handler"
	"github.com/telemedly/telemed-api/internal/middleware"
	"github.com/telemedly/telemed-api/internal/model"
	usersvc "github.com/telemedly/telemed-api/internal/service/user"
)

type Handler struct {
	service      usersvc.Service
	cookieMaxAge int
}

func NewHandler(service usersvc.Service, cookieMaxAge int) *Handler {
	return &Handler{service: service, cookieMaxAge: cookieMaxAge}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	users := r.Group("/user")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/logout", auth.Authenticate(), h.Logout)
		users.GET("/ping", auth.Authenticate(), h.Ping)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, user, "User registered successfully")
}

// Login verifies credentials and sets the session cookie alongside
// returning the token in the body.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.SetCookie(middleware.CookieToken, token, h.cookieMaxAge, "/", "", false, true)
	handler.OK(c, http.StatusOK, gin.H{"user": user, "token": token}, "Login successful")
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.CookieToken, "", -1, "/", "", false, true)
	handler.OK(c, http.StatusOK, true, "Logged out successfully")
}

// Ping returns the authenticated user's merged profile.
func (h *Handler) Ping(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, profile, "User fetched successfully")
}
