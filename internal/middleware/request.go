package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/shamssarah/Recipe-Recommender/internal/logging"
	"github.com/shamssarah/Recipe-Recommender/internal/utils"
)

const RequestIDHeader = "X-Request-ID"

// Middleware wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestID uses the X-Request-ID header if present, otherwise generates a
// new UUID. The id is echoed back and stored in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// statusRecorder captures the status code and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}
	return n, nil
}

// Logging logs each response at a level picked from its status:
// 5xx at error, 4xx at warn, everything else at info.
func Logging(log logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug(r.Context(), "request", "method", r.Method, "uri", r.RequestURI)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			args := []any{"method", r.Method, "uri", r.RequestURI, "status", rec.status, "bytes_sent", rec.bytes}
			switch {
			case rec.status >= http.StatusInternalServerError:
				log.Error(r.Context(), "response", args...)
			case rec.status >= http.StatusBadRequest:
				log.Warn(r.Context(), "response", args...)
			default:
				log.Info(r.Context(), "response", args...)
			}
		})
	}
}

// Recover turns a handler panic into a 500 and logs the stack. If the
// handler already started the response, only the log is written.
func Recover(log logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if p := recover(); p != nil {
					log.Error(r.Context(), "request panic",
						"method", r.Method,
						"uri", r.RequestURI,
						"panic", p,
						"stack", string(debug.Stack()),
					)
					if !rec.wroteHeader {
						utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
					}
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
