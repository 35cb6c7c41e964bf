package utils

import (
	"context"

	"github.com/mmdatafocus/debt_gateway/appctx"
)

// Alias the shared context key type so existing code keeps working.
type contextKey = appctx.ContextKey

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyClientIP      = appctx.ContextKeyClientIP
	ContextKeyEndpoint      = appctx.ContextKeyEndpoint
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetClientIPFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyClientIP)
}

func SetClientIPInContext(ctx context.Context, ip string) context.Context {
	return appctx.Set(ctx, ContextKeyClientIP, ip)
}

func GetEndpointFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyEndpoint)
}

func SetEndpointInContext(ctx context.Context, endpoint string) context.Context {
	return appctx.Set(ctx, ContextKeyEndpoint, endpoint)
}
