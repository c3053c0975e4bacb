package api

import (
	"crypto/subtle"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/foxzi/campaignmock/internal/metrics"
)

// TokenHeader carries the API credential
const TokenHeader = "Api-Token"

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", ww.Status(),
			"duration", time.Since(start),
			"bytes", ww.BytesWritten(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// authMiddleware checks the Api-Token header
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			s.sendError(w, http.StatusUnauthorized, "Missing Api-Token header")
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(s.config.Token)) != 1 {
			s.logger.Warn("invalid API token",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			s.sendError(w, http.StatusForbidden, "Invalid Api-Token value")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware applies the per-token request budget
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := s.limiter.Allow(r.Header.Get(TokenHeader))
		if !res.Allowed {
			metrics.IncRateLimitExceeded()
			s.logger.Warn("rate limit exceeded",
				"remote_addr", r.RemoteAddr,
				"retry_after", res.RetryAfter,
			)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			s.sendError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
