package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidTaskFields, http.StatusBadRequest},
		{domain.ErrInvalidPayload, http.StatusBadRequest},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", domain.ErrUserNotFound), http.StatusNotFound},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.WrapError(domain.ErrCodeInternal, "internal error", errors.New("boom")), http.StatusInternalServerError},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapError(tc.err), tc.err.Error())
	}
}

func TestRespondError_PlainText(t *testing.T) {
	h := newBaseHandler(nil, nil)

	ctx := &fasthttp.RequestCtx{}
	h.respondError(ctx, context.Background(), domain.ErrTaskNotFound)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, "Invalid task ID.", string(ctx.Response.Body()))
	assert.Contains(t, string(ctx.Response.Header.ContentType()), "text/plain")

	ctx = &fasthttp.RequestCtx{}
	h.respondError(ctx, context.Background(), errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, "internal error", string(ctx.Response.Body()))
}

func TestRespondError_LogsInternalCause(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := newBaseHandler(httpcontext.NewAdapter(time.Second), zap.New(core))

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/todo/app/tasks/")
	httpcontext.SetPrincipal(ctx, &domain.Principal{UserID: 1, Username: "Alice"})
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondError(ctx, stdCtx, errors.New("connection reset by peer"))
	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, "internal error", string(ctx.Response.Body()))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "Alice", fields["username"])
	assert.Equal(t, "/todo/app/tasks/", fields["path"])
	assert.Contains(t, fields["error"], "connection reset by peer")
}

func TestPathID(t *testing.T) {
	h := newBaseHandler(nil, nil)

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue(TaskParam, "42")
	id, ok := h.pathID(ctx, TaskParam)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	ctx = &fasthttp.RequestCtx{}
	ctx.SetUserValue(TaskParam, "4x")
	_, ok = h.pathID(ctx, TaskParam)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "invalid id", string(ctx.Response.Body()))
}
