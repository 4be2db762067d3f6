package middleware

import (
	"net/http"

	"github.com/debarshiray/libpwquality/ticket"
)

func RequireService(mgr *ticket.Manager, service string) func(http.Handler) http.Handler {
	return requireTicket(mgr, service)
}
