package services

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/todo/api/handler"
	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/infrastructure/monitor"
	"github.com/fastygo/todo/internal/middleware"
	"github.com/fastygo/todo/internal/password"
	"github.com/fastygo/todo/internal/router"
	"github.com/fastygo/todo/pkg/httpcontext"
	authUC "github.com/fastygo/todo/usecase/auth"
	taskUC "github.com/fastygo/todo/usecase/task"
	userUC "github.com/fastygo/todo/usecase/user"
	"github.com/fastygo/todo/usecase/validation"
)

// Container holds the wired use cases and the HTTP entry point.
type Container struct {
	Users   *userUC.UseCase
	Tasks   *taskUC.UseCase
	Auth    *authUC.UseCase
	Monitor *monitor.Monitor
	Handler fasthttp.RequestHandler
}

// NewContainer wires use cases, handlers and the access policy on top of store.
// The monitor is created stopped; callers that serve traffic start it.
func NewContainer(cfg *config.Config, store *Storage, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}

	hasher := password.NewBcrypt(cfg.Security.BcryptCost)
	validator := validation.New(store.Tasks, store.Users)

	users := userUC.New(store.Users, validator, hasher, logger)
	tasks := taskUC.New(store.Tasks, validator, logger)
	auth := authUC.New(store.Users, hasher, logger)

	mon := monitor.New(store.Driver, store.Ping, 10*time.Second, logger)

	adapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(users, adapter, logger),
		Task:   apiHandler.NewTaskHandler(tasks, adapter, logger),
		User:   apiHandler.NewUserHandler(users, adapter, logger),
		Health: apiHandler.NewHealthHandler(mon, adapter, logger),
	}
	access := middleware.NewAccess(auth, cfg.Security.Realm, cfg.Context.RequestTimeout, logger)

	return &Container{
		Users:   users,
		Tasks:   tasks,
		Auth:    auth,
		Monitor: mon,
		Handler: router.New(handlers, access).Handler,
	}
}
