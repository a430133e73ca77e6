package gateway

import "context"

const requestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID tags ctx so backend calls made under it carry the same X-Request-Id.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
