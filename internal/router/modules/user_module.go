package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/carsphere/carsphere-api/internal/interface/http"
	"github.com/carsphere/carsphere-api/internal/interface/middleware"
	"github.com/carsphere/carsphere-api/pkg/helpers"
)

type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  *helpers.TokenManager
}

func NewUserModule(h *handlers.UserHandler, tokens *helpers.TokenManager) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(m.Tokens))
	{
		users.GET("/me", m.Handler.Me)
	}
}
