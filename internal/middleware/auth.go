package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
	"github.com/fastygo/todo/pkg/logger"
)

// Authenticator verifies a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Principal, error)
}

// Access enforces HTTP basic authentication and role checks.
type Access struct {
	auth      Authenticator
	challenge string
	timeout   time.Duration
	logger    *zap.Logger
}

func NewAccess(auth Authenticator, realm string, timeout time.Duration, logger *zap.Logger) *Access {
	if realm == "" {
		realm = "todo"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Access{
		auth:      auth,
		challenge: fmt.Sprintf("Basic realm=%q", realm),
		timeout:   timeout,
		logger:    logger,
	}
}

// Require wraps next so it runs only for callers holding role.
func (a *Access) Require(role domain.Role, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		reqID := httpcontext.RequestID(ctx)

		username, password, ok := basicCredentials(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
		if !ok {
			a.unauthorized(ctx)
			return
		}

		stdCtx, cancel := context.WithTimeout(logger.ContextWithRequestID(context.Background(), reqID), a.timeout)
		principal, err := a.auth.Authenticate(stdCtx, username, password)
		cancel()

		log := a.logger.With(zap.String("request_id", reqID), zap.String("username", username))
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
				log.Warn("authentication failed", zap.ByteString("path", ctx.Path()))
				a.unauthorized(ctx)
				return
			}
			log.Error("authentication error", zap.Error(err))
			ctx.Response.Header.SetContentType("text/plain; charset=utf-8")
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("internal error")
			return
		}

		if !principal.HasRole(role) {
			log.Warn("access denied",
				zap.String("required_role", string(role)),
				zap.ByteString("path", ctx.Path()))
			ctx.Response.Header.SetContentType("text/plain; charset=utf-8")
			ctx.SetStatusCode(fasthttp.StatusForbidden)
			ctx.SetBodyString(domain.ErrForbidden.Message)
			return
		}

		httpcontext.SetPrincipal(ctx, principal)
		next(ctx)
	}
}

func (a *Access) unauthorized(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set(fasthttp.HeaderWWWAuthenticate, a.challenge)
	ctx.Response.Header.SetContentType("text/plain; charset=utf-8")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBodyString(domain.ErrUnauthorized.Message)
}

var basicPrefix = []byte("Basic ")

func basicCredentials(header []byte) (username, password string, ok bool) {
	if len(header) < len(basicPrefix) || !bytes.EqualFold(header[:len(basicPrefix)], basicPrefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(header[len(basicPrefix):])))
	if err != nil {
		return "", "", false
	}
	user, pass, found := bytes.Cut(decoded, []byte(":"))
	if !found {
		return "", "", false
	}
	return string(user), string(pass), true
}
