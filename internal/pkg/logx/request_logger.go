/*
Package logx provides a structured logging wrapper based on zerolog.

This file contains the HTTP middleware used by the state inspector to log request
lifecycle information such as URI, method, response status, and latency.
*/
package logx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger returns an HTTP middleware function that logs each inspector request.
// It creates a per-request logger and injects it into the request context so handlers
// can retrieve it with zerolog.Ctx.
// Successful reads are logged at Debug since view layers poll them.
func RequestLogger() func(next http.Handler) http.Handler {
	baseLogger := Component("inspector")

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger := baseLogger.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("remote_ip", r.RemoteAddr).
				Str("request_method", r.Method).
				Str("request_uri", r.RequestURI).
				Logger()

			r = r.WithContext(logger.WithContext(r.Context()))

			t1 := time.Now()
			next.ServeHTTP(ww, r)

			logEvent(&logger, r.Method, ww.Status()).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(t1)).
				Msg("Request completed")
		}

		return http.HandlerFunc(fn)
	}
}

func logEvent(logger *zerolog.Logger, method string, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return logger.Error()
	case status >= 400:
		return logger.Warn()
	case method == http.MethodGet:
		return logger.Debug()
	default:
		return logger.Info()
	}
}
