package middleware

import (
	"net/http"

	"github.com/debarshiray/libpwquality/ticket"
)

// RequireTicket returns middleware that admits only requests carrying a valid
// change ticket in the Authorization header, regardless of the service that
// issued it. Verified claims are injected into the request context for
// [ClaimsFromContext].
func RequireTicket(mgr *ticket.Manager) func(http.Handler) http.Handler {
	return requireTicket(mgr, "")
}
