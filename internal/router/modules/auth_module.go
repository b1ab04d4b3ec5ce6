package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/carsphere/carsphere-api/internal/interface/http"
)

// AuthModule exposes the two public routes; everything else requires a
// bearer token.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)
}
