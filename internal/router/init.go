package router

import (
	"github.com/carsphere/carsphere-api/internal/application"
	"github.com/carsphere/carsphere-api/internal/container"
	pginfra "github.com/carsphere/carsphere-api/internal/infrastructure/postgres"
	handlers "github.com/carsphere/carsphere-api/internal/interface/http"
	"github.com/carsphere/carsphere-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	validate := container.GetValidator()

	carRepo := pginfra.NewCarRepository(container.GetPGPool())
	carSvc := application.NewCarService(
		carRepo,
		validate,
		container.GetRedis(),
		container.GetES(),
		cfg.ESCarsIndex,
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
	)

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	userSvc := application.NewUserService(
		userRepo,
		validate,
		container.GetTokens(),
		container.GetRabbitPub(),
		logger,
	)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, logger)))
	r.Add(modules.NewCarModule(handlers.NewCarHandler(carSvc, logger), container.GetTokens()))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), container.GetTokens()))
}
