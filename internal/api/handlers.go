// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pdiddy/collab-finder/internal/offline"
)

// Handler holds the API route handlers.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

// NewHandler creates a Handler around the orchestration service.
func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// wildcardID extracts an entity id from the trailing URL segment.
// OpenAlex ids are full URLs, so clients may send them raw or
// percent-encoded; both forms are accepted.
func wildcardID(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// queryLimit parses the named query parameter, clamping to [1, max] and
// substituting def when absent or unparsable.
func queryLimit(r *http.Request, name string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// respondError maps service errors: a missing entity is 404, anything
// else means both data sources failed.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, offline.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.log.Error().Err(err).Msg("request failed on all data sources")
	writeJSON(w, http.StatusBadGateway, errorBody("data sources unavailable"))
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SearchTopics handles GET /api/topics?q=&limit=.
func (h *Handler) SearchTopics(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		query = strings.TrimSpace(r.URL.Query().Get("query"))
	}
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("parameter 'q' is required"))
		return
	}

	topics, err := h.svc.SearchTopics(r.Context(), query, queryLimit(r, "limit", 10, 100))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

// SearchAuthors handles GET /api/authors?q=&limit=.
func (h *Handler) SearchAuthors(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		query = strings.TrimSpace(r.URL.Query().Get("query"))
	}
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("parameter 'q' is required"))
		return
	}

	authors, err := h.svc.SearchAuthors(r.Context(), query, queryLimit(r, "limit", 10, 100))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authors": authors})
}

// AuthorsByTopic handles GET /api/authors/{topicID}.
func (h *Handler) AuthorsByTopic(w http.ResponseWriter, r *http.Request) {
	topicID := wildcardID(r)
	if topicID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("topic id is required"))
		return
	}

	authors, err := h.svc.AuthorsByTopic(r.Context(), topicID, queryLimit(r, "limit", 50, 100))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authors": authors})
}

// AuthorBrief handles GET /api/author/{authorID}.
func (h *Handler) AuthorBrief(w http.ResponseWriter, r *http.Request) {
	authorID := wildcardID(r)
	if authorID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("author id is required"))
		return
	}

	author, err := h.svc.AuthorBrief(r.Context(), authorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"author": author})
}

// InstitutionsByTopic handles GET /api/institutions/{topicID}.
func (h *Handler) InstitutionsByTopic(w http.ResponseWriter, r *http.Request) {
	topicID := wildcardID(r)
	if topicID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("topic id is required"))
		return
	}

	institutions, err := h.svc.InstitutionsByTopic(r.Context(), topicID, queryLimit(r, "limit", 50, 100))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"institutions": institutions})
}

// TopicNetwork handles GET /api/coauthor-network/{topicID}.
func (h *Handler) TopicNetwork(w http.ResponseWriter, r *http.Request) {
	topicID := wildcardID(r)
	if topicID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("topic id is required"))
		return
	}

	network, err := h.svc.TopicNetwork(r.Context(), topicID, queryLimit(r, "limit_works", 200, 200))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, network)
}

// AuthorNetwork handles GET /api/coauthor-network/author/{authorID}.
func (h *Handler) AuthorNetwork(w http.ResponseWriter, r *http.Request) {
	authorID := wildcardID(r)
	if authorID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("author id is required"))
		return
	}

	network, err := h.svc.AuthorNetwork(r.Context(), authorID, queryLimit(r, "limit_works", 200, 200))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, network)
}

// ResearchProfile handles GET /api/research-profile/{authorID}.
func (h *Handler) ResearchProfile(w http.ResponseWriter, r *http.Request) {
	authorID := wildcardID(r)
	if authorID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("author id is required"))
		return
	}

	prof, err := h.svc.ResearchProfile(r.Context(), authorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": prof})
}

// Compatibility handles GET /api/compatibility?user=&target=.
func (h *Handler) Compatibility(w http.ResponseWriter, r *http.Request) {
	targetID := strings.TrimSpace(r.URL.Query().Get("target"))
	if targetID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("parameter 'target' is required"))
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user"))

	result, err := h.svc.Compatibility(r.Context(), userID, targetID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// TrendingTopics handles GET /api/trending/topics?limit=.
func (h *Handler) TrendingTopics(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.TrendingTopics(r.Context(), queryLimit(r, "limit", 10, 50))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": entries})
}

// TrendingScientists handles GET /api/trending/scientists?limit=.
func (h *Handler) TrendingScientists(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.TrendingScientists(r.Context(), queryLimit(r, "limit", 10, 50))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scientists": entries})
}
