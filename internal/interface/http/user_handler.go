package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/carsphere/carsphere-api/internal/application"
	"github.com/carsphere/carsphere-api/internal/interface/middleware"
	"github.com/carsphere/carsphere-api/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// Me GET /api/users/me — resolves the authenticated user from the token's
// subject claim.
func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetInt64(middleware.CtxUserIDKey)
	if uid == 0 {
		response.Error(c, http.StatusUnauthorized, "missing identity claim", nil)
		return
	}
	user, err := h.Svc.GetByID(c.Request.Context(), uid)
	if err != nil {
		serviceError(c, err, http.StatusNotFound)
		return
	}
	response.Success(c, http.StatusOK, user, "profile")
}
