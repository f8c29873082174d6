package router

import (
	"github.com/oksasatya/bug-tracker-api/internal/application"
	"github.com/oksasatya/bug-tracker-api/internal/container"
	pginfra "github.com/oksasatya/bug-tracker-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/bug-tracker-api/internal/interface/http"
	"github.com/oksasatya/bug-tracker-api/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module with the registry. Called once
// during startup.
func InitModules(r *Registry) {
	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	bugRepo := pginfra.NewBugRepository(container.GetPGPool())

	userSvc := application.NewUserService(userRepo, container.GetJWT(), container.GetLogger())
	bugSvc := application.NewBugService(bugRepo, userRepo, container.GetLogger(), container.GetRabbitPub(), container.GetIndexer())

	userHandler := handlers.NewUserHandler(userSvc, container.GetLogger())
	bugHandler := handlers.NewBugHandler(bugSvc, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, userRepo, container.GetJWT()))
	r.Add(modules.NewBugModule(bugHandler, userRepo, container.GetJWT()))
	if container.GetConfig() == nil || container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
