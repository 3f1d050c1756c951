package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
	"github.com/fastygo/todo/pkg/logger"
)

const (
	// BasePath prefixes every application route.
	BasePath = "/todo/app"

	internalErrorBody = "internal error"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		h.respondText(ctx, http.StatusInternalServerError, internalErrorBody)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (h baseHandler) respondText(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.Response.Header.SetContentType("text/plain; charset=utf-8")
	ctx.SetStatusCode(status)
	ctx.SetBodyString(message)
}

func (h baseHandler) respondCreated(ctx *fasthttp.RequestCtx, location string) {
	ctx.Response.Header.Set("Location", location)
	ctx.SetStatusCode(http.StatusCreated)
}

func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status := mapError(err)
	if status == http.StatusInternalServerError {
		if !domain.IsDomainError(err, domain.ErrCodeInternal) {
			err = domain.WrapError(domain.ErrCodeInternal, internalErrorBody, err)
		}
		fields := []zap.Field{
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err),
		}
		if p, ok := httpcontext.PrincipalFromContext(stdCtx); ok {
			fields = append(fields, zap.String("username", p.Username))
		}
		logger.WithRequestID(stdCtx, h.logger).Error("request failed", fields...)
	}
	h.respondText(ctx, status, domain.PublicMessage(err))
}

// principal returns the authenticated caller. Routes reaching a handler without
// one are misconfigured, so the request fails closed.
func (h baseHandler) principal(ctx *fasthttp.RequestCtx) (*domain.Principal, bool) {
	p, ok := httpcontext.Principal(ctx)
	if !ok {
		h.respondText(ctx, http.StatusUnauthorized, domain.PublicMessage(domain.ErrUnauthorized))
	}
	return p, ok
}

// pathID parses a numeric route parameter.
func (h baseHandler) pathID(ctx *fasthttp.RequestCtx, name string) (int64, bool) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.respondText(ctx, http.StatusBadRequest, domain.PublicMessage(domain.ErrInvalidID))
		return 0, false
	}
	return id, true
}

// decode unmarshals the request body into dst.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := parseBody(ctx, dst); err != nil {
		h.respondText(ctx, http.StatusBadRequest, domain.PublicMessage(err))
		return false
	}
	return true
}

func parseBody(ctx *fasthttp.RequestCtx, dst interface{}) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, err)
	}
	return nil
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict
	case domain.IsDomainError(err, domain.ErrCodeInternal):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
