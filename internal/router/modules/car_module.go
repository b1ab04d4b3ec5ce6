package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/carsphere/carsphere-api/internal/interface/http"
	"github.com/carsphere/carsphere-api/internal/interface/middleware"
	"github.com/carsphere/carsphere-api/pkg/helpers"
)

// CarModule wires catalog routes; all of them require authentication.
type CarModule struct {
	Handler *handlers.CarHandler
	Tokens  *helpers.TokenManager
}

func NewCarModule(h *handlers.CarHandler, tokens *helpers.TokenManager) *CarModule {
	return &CarModule{Handler: h, Tokens: tokens}
}

func (m *CarModule) Register(rg *gin.RouterGroup) {
	cars := rg.Group("/cars")
	cars.Use(middleware.Auth(m.Tokens))
	{
		cars.GET("", m.Handler.List)
		cars.GET("/search", m.Handler.Search)
		cars.GET("/:id", m.Handler.Get)
		cars.POST("", m.Handler.Create)
		cars.PUT("/:id", m.Handler.Update)
		cars.DELETE("/:id", m.Handler.Delete)
		cars.POST("/:id/photo", m.Handler.UploadPhoto)
	}
}
