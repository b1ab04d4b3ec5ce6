package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/carsphere/carsphere-api/internal/application"
	"github.com/carsphere/carsphere-api/pkg/response"
)

type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		serviceError(c, err, http.StatusBadRequest)
		return
	}
	h.Logger.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("user registered")
	response.Success(c, http.StatusCreated, user, "user registered")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in application.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		serviceError(c, err, http.StatusBadRequest)
		return
	}
	response.Success(c, http.StatusOK, res, "login successful")
}
