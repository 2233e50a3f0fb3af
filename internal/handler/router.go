/*
Package handler provides the HTTP handlers and routing setup for the state inspector.

This file defines the main Router, applying logging, CORS and per-IP rate limiting before
delegating requests to the snapshot and submit handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"chatsync/internal/pkg/limiter"
	"chatsync/internal/pkg/logx"
)

// Router sets up the inspector routing table. When deps.PostLimiter is nil a limiter
// is built from the configured post rate and burst.
func Router(deps *AppDeps) http.Handler {
	if deps.PostLimiter == nil {
		deps.PostLimiter = limiter.New(rate.Limit(deps.Config.PostRate), deps.Config.PostBurst)
	}

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", HandleHealth(deps))

	r.Route("/api", func(api chi.Router) {
		api.Get("/session", HandleGetSession(deps))
		api.Get("/roster", HandleGetRoster(deps))
		api.Get("/feed", HandleGetFeed(deps))
		api.With(deps.PostLimiter.Middleware).Post("/messages", HandlePostMessage(deps))
	})

	return r
}
