package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/domain"
	appLogger "github.com/fastygo/todo/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	KeyPrincipal  Key = "principal"
)

const (
	userValueRequestID = "httpcontext.request_id"
	userValuePrincipal = "httpcontext.principal"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	stdCtx = appLogger.ContextWithRequestID(stdCtx, RequestID(ctx))

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if p, ok := Principal(ctx); ok {
		stdCtx = context.WithValue(stdCtx, KeyPrincipal, p)
	}

	return stdCtx, cancel
}

// RequestID returns the id of the current request, taking X-Request-ID when the
// client sent one. The id is generated once and echoed in the response.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if id, ok := ctx.UserValue(userValueRequestID).(string); ok {
		return id
	}

	id := string(ctx.Request.Header.Peek("X-Request-ID"))
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	ctx.SetUserValue(userValueRequestID, id)
	ctx.Response.Header.Set("X-Request-ID", id)
	return id
}

// SetPrincipal records the authenticated caller on the request.
func SetPrincipal(ctx *fasthttp.RequestCtx, p *domain.Principal) {
	ctx.SetUserValue(userValuePrincipal, p)
}

// Principal returns the caller stored by SetPrincipal.
func Principal(ctx *fasthttp.RequestCtx) (*domain.Principal, bool) {
	p, ok := ctx.UserValue(userValuePrincipal).(*domain.Principal)
	return p, ok && p != nil
}

// PrincipalFromContext returns the caller attached by Attach.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(KeyPrincipal).(*domain.Principal)
	return p, ok && p != nil
}
