package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/todo/api/handler"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/middleware"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	User   *apiHandler.UserHandler
	Health *apiHandler.HealthHandler
}

// Route is one entry of the access table. An empty Role marks a public route.
type Route struct {
	Method  string
	Path    string
	Role    domain.Role
	Handler fasthttp.RequestHandler
}

// Routes returns the static route table.
func Routes(h Handlers) []Route {
	const (
		tasks = apiHandler.BasePath + "/tasks/"
		task  = tasks + "{" + apiHandler.TaskParam + "}"
		users = apiHandler.BasePath + "/users/"
		user  = users + "{" + apiHandler.UserParam + "}"
	)

	return []Route{
		{fasthttp.MethodGet, "/health", "", h.Health.Check},

		{fasthttp.MethodPost, apiHandler.BasePath + "/register", "", h.Auth.Register},

		{fasthttp.MethodGet, tasks, domain.RoleUser, h.Task.ListTasks},
		{fasthttp.MethodPost, tasks, domain.RoleUser, h.Task.CreateTask},
		{fasthttp.MethodGet, task, domain.RoleUser, h.Task.GetTask},
		{fasthttp.MethodPut, task, domain.RoleUser, h.Task.UpdateTask},
		{fasthttp.MethodDelete, task, domain.RoleUser, h.Task.DeleteTask},

		{fasthttp.MethodGet, users, domain.RoleAdmin, h.User.ListUsers},
		{fasthttp.MethodGet, user, domain.RoleAdmin, h.User.GetUser},
		{fasthttp.MethodDelete, user, domain.RoleAdmin, h.User.DeleteUser},
	}
}

func New(handlers Handlers, access *middleware.Access) *router.Router {
	r := router.New()

	for _, route := range Routes(handlers) {
		handler := route.Handler
		if route.Role != "" {
			handler = access.Require(route.Role, handler)
		}
		r.Handle(route.Method, route.Path, handler)
	}

	return r
}
