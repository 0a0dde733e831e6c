package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/LovedOnes/internal/core"
	mw "github.com/JonMunkholm/LovedOnes/internal/web/middleware"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx so the
// service can log who saved or deleted a record.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.WithRequestMeta(ctx, core.RequestMeta{
		IP:        mw.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}
