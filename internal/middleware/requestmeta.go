package middleware

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type requestMetaKey struct{}

// Meta holds per-request values the handlers log with.
type Meta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// ContextWithMeta adds request metadata to ctx.
func ContextWithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// MetaFromContext extracts request metadata from ctx.
func MetaFromContext(ctx context.Context) Meta {
	if v, ok := ctx.Value(requestMetaKey{}).(Meta); ok {
		return v
	}

	return Meta{}
}

// RequestMeta is a middleware that adds a request id, client IP and user-agent
// to the request context. An incoming X-Request-ID is kept, otherwise one is
// generated; either way it is echoed on the response.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		id := ctx.Header(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		meta := Meta{
			RequestID: id,
			ClientIP:  extractClientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
		}

		ctx.SetHeader(RequestIDHeader, id)
		ctx = huma.WithContext(ctx, ContextWithMeta(ctx.Context(), meta))

		next(ctx)
	}
}

func extractClientIP(ctx huma.Context) string {
	// X-Forwarded-For may carry a chain; the first entry is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.RemoteAddr()
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		return host[:idx]
	}

	return host
}
