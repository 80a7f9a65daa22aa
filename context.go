package navguard

import "context"

type clientIPKey struct{}
type deviceIDKey struct{}

// WithClientIP attaches the caller's IP to the context so audit events can
// record it. Purely informational; decisions never read it.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// WithDeviceID attaches the client device identifier to the context for
// audit correlation across sessions on the same device.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDKey{}, deviceID)
}

func clientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func deviceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey{}).(string)
	return id
}
