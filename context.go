package pwquality

import "context"

type serviceContextKey struct{}
type userContextKey struct{}
type remoteHostContextKey struct{}

// WithService attaches the name of the service requesting the password
// change to ctx. The controller uses it for logging and audit events.
func WithService(ctx context.Context, service string) context.Context {
	return context.WithValue(ctx, serviceContextKey{}, service)
}

// WithUser attaches the name of the account whose token is being changed
// to ctx. Checkers that factor the account name into their scoring read
// it back with UserFromContext.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// WithRemoteHost attaches the originating host of the change request to
// ctx for audit events.
func WithRemoteHost(ctx context.Context, host string) context.Context {
	return context.WithValue(ctx, remoteHostContextKey{}, host)
}

// UserFromContext returns the account name attached with WithUser, or ""
// when none was attached.
func UserFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	user, _ := ctx.Value(userContextKey{}).(string)
	return user
}

func serviceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	service, _ := ctx.Value(serviceContextKey{}).(string)
	return service
}

func remoteHostFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	host, _ := ctx.Value(remoteHostContextKey{}).(string)
	return host
}
