package router

import (
	"context"

	"github.com/safezone-app/navguard"
)

// Observer returns middleware that reports every navigation outcome to fn
// after the inner handler ran. fn must not block; it runs on the navigation
// path.
func Observer(fn func(req Request, d navguard.Decision, err error)) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (navguard.Decision, error) {
			d, err := next(ctx, req)
			fn(req, d, err)
			return d, err
		}
	}
}

// WithContext returns middleware that derives the evaluation context before
// the guard runs, for hosts that attach audit fields (client IP, device ID)
// per navigation.
func WithContext(derive func(ctx context.Context, req Request) context.Context) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (navguard.Decision, error) {
			return next(derive(ctx, req), req)
		}
	}
}
