package core

import "context"

type requestMetaKey struct{}

// RequestMeta describes who triggered a mutation, for logging.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// WithRequestMeta attaches meta to ctx.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the RequestMeta stored in ctx.
func RequestMetaFrom(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta, ok
}
