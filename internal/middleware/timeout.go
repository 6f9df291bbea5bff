package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds request handling when no explicit timeout is
// configured.
const DefaultRequestTimeout = 30 * time.Second

// Slow requests get cut off with a JSON body shaped like ErrorResponse, since
// every other error path on this API speaks JSON.
const timeoutBody = `{"success":false,"error":"Request Timeout","message":"The request took too long to process"}`

// Timeout bounds each request two ways: the request context gains a deadline
// so repository and queue calls abort, and http.TimeoutHandler cuts off the
// response with a 503 if the handler keeps running anyway.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		timed := http.TimeoutHandler(next, timeout, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			timed.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
