package handler

import (
	"fmt"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/pkg/httpcontext"
	userUC "github.com/fastygo/todo/usecase/user"
)

// AuthHandler serves public account endpoints.
type AuthHandler struct {
	baseHandler
	users *userUC.UseCase
}

func NewAuthHandler(users *userUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		users:       users,
	}
}

// @Summary Register a new user with the USER role
// @Tags auth
// @Router /todo/app/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.users.CreateUser(stdCtx, req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondCreated(ctx, fmt.Sprintf("%s/users/%d", BasePath, id))
}
