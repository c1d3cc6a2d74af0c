// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the collaborator-finder engine over HTTP: topic and
// author search, co-authorship networks, research profiles, compatibility
// scoring, and trending rankings. Every data endpoint tries the live
// provider first and falls back to the offline snapshot.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter mounts all API routes under /api. CORS is open for GETs so
// the browser front-end can be served from a different origin.
func NewRouter(svc *Service, log zerolog.Logger) chi.Router {
	h := NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Get("/topics", h.SearchTopics)
		r.Get("/authors", h.SearchAuthors)
		r.Get("/authors/*", h.AuthorsByTopic)
		r.Get("/author/*", h.AuthorBrief)
		r.Get("/institutions/*", h.InstitutionsByTopic)

		r.Get("/coauthor-network/author/*", h.AuthorNetwork)
		r.Get("/coauthor-network/*", h.TopicNetwork)

		r.Get("/research-profile/*", h.ResearchProfile)
		r.Get("/compatibility", h.Compatibility)

		r.Get("/trending/topics", h.TrendingTopics)
		r.Get("/trending/scientists", h.TrendingScientists)
	})

	return r
}
