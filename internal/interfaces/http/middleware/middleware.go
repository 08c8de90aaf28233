// Package middleware holds the HTTP middleware of the box API: request IDs,
// access logs, panic recovery, per-client rate limits, and header policies.
// Request timeouts come from chi's middleware.Timeout.
package middleware

import (
	"context"
	"mime"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hapkiduki/boxspec-go/internal/application/dto"
	"github.com/hapkiduki/boxspec-go/internal/application/port"
	"github.com/hapkiduki/boxspec-go/pkg/logger"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client supplied request IDs.
const maxRequestIDLength = 128

// GetRequestID returns the request ID stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := logger.RequestIDFromContext(ctx)
	return id
}

// RequestID keeps a caller supplied X-Request-ID or generates a UUID, and
// stores it in the request context for the logger and response meta.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
	})
}

// Logger writes one access log entry per request.
//
// Parameters:
//   - log: destination logger; entries carry the request ID
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware
func Logger(log port.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			log.WithContext(r.Context()).Info("HTTP Request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", sw.status,
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// statusWriter records the first status code written.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true
	return sw.ResponseWriter.Write(b)
}

// Recoverer turns a handler panic into a logged 500 INTERNAL_ERROR.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recoverer(log port.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithContext(r.Context()).Error("Panic recovered",
					"error", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiterConfig configures RateLimiter.
type RateLimiterConfig struct {
	// RequestsPerSecond is the refill rate of each client bucket.
	RequestsPerSecond float64

	// Burst is the bucket size.
	Burst int

	// KeyFunc picks the bucket of a request. Nil means ClientIP.
	KeyFunc func(*http.Request) string
}

// ClientIP returns the host part of r.RemoteAddr.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimiter rejects requests beyond a per-client token bucket with 429.
//
// Parameters:
//   - config: rate, burst and client key
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware
func RateLimiter(config RateLimiterConfig) func(http.Handler) http.Handler {
	keyOf := config.KeyFunc
	if keyOf == nil {
		keyOf = ClientIP
	}

	var mu sync.Mutex
	buckets := make(map[string]*rate.Limiter)
	bucket := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := buckets[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
			buckets[key] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !bucket(keyOf(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecureHeaders sets the browser hardening headers on every response.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("Content-Security-Policy", "default-src 'self'")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// APIVersion sets X-API-Version on every response.
func APIVersion(version string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-API-Version", version)
			next.ServeHTTP(w, r)
		})
	}
}

// ContentTypeJSON requires an application/json body on POST, PUT and PATCH
// (parameters such as charset are allowed) and answers 415 otherwise.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				writeError(w, r, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type must be application/json")
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// RealIP replaces r.RemoteAddr with the first X-Forwarded-For hop, or with
// X-Real-IP when no forwarding chain is present.
func RealIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			r.RemoteAddr = strings.TrimSpace(first)
		} else if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
			r.RemoteAddr = strings.TrimSpace(xrip)
		}
		next.ServeHTTP(w, r)
	})
}

// writeError answers with the API error envelope used by the handlers.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	resp := dto.NewErrorResponse[any](code, message)
	resp.Meta = &dto.ResponseMeta{
		RequestID: GetRequestID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}
