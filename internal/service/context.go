package service

import "context"

type requestIDKey struct{}

// WithRequestID 在 ctx 上附带外部请求 ID，落库时写入 Submission.RequestID
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
