package middleware

import (
	"log/slog"
	"net/http"
)

// Stack wraps next with the full request middleware, outermost first:
// request ID, access logging, panic recovery. Logging sits outside Recover
// so a recovered panic still produces its access-log line.
func Stack(logger *slog.Logger, next http.Handler) http.Handler {
	return RequestID(Logging(logger)(Recover(logger)(next)))
}
