package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Recoverer turns a handler panic into a 500 JSON response and logs it.
// http.ErrAbortHandler is re-raised so the server can abort the connection.
//
//	router.Middleware(gohttp.Recoverer(logger))
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.Error("handler panic",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
				)
				NewResponse(w).ServerError()
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler answers unmatched routes with a 404 JSON message.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	NewResponse(w).NotFound("route [" + r.URL.Path + "] not found")
}
