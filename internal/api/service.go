// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/collab-finder/internal/compat"
	"github.com/pdiddy/collab-finder/internal/fanout"
	"github.com/pdiddy/collab-finder/internal/graph"
	"github.com/pdiddy/collab-finder/internal/openalex"
	"github.com/pdiddy/collab-finder/internal/profile"
	"github.com/pdiddy/collab-finder/internal/trends"
	"github.com/pdiddy/collab-finder/pkg/types"
)

// Provider is the live bibliographic data source.
type Provider interface {
	FetchWorks(ctx context.Context, filter string, perPage int, sort string) ([]types.Work, error)
	FetchAuthorBrief(ctx context.Context, id string) (types.AuthorBrief, error)
	FetchConceptBrief(ctx context.Context, id string) (types.ConceptBrief, error)
	FetchGroupedCounts(ctx context.Context, filter, groupBy string, perPage int) (map[string]types.GroupCount, error)
	SearchTopics(ctx context.Context, query string, limit int) ([]types.TopicSummary, error)
	SearchAuthors(ctx context.Context, query string, limit int) ([]types.AuthorBrief, error)
	FetchAuthorsByTopic(ctx context.Context, topicID string, limit int) ([]types.AuthorBrief, error)
	FetchInstitutionsByTopic(ctx context.Context, topicID string, limit int) ([]types.InstitutionSummary, error)
}

// Fallback is the offline substitute consulted when the provider reports
// ErrUnavailable.
type Fallback interface {
	SearchTopics(query string, limit int) ([]types.TopicSummary, error)
	SearchAuthors(query string, limit int) ([]types.AuthorBrief, error)
	AuthorsByTopic(topicID string, limit int) ([]types.AuthorBrief, error)
	AuthorProfile(authorID string) (types.AuthorBrief, error)
	AuthorWorks(authorID string) ([]types.Work, error)
	InstitutionsByTopic(topicID string, limit int) ([]types.InstitutionSummary, error)
	TopicNetwork(topicID string) (types.CoauthorGraph, error)
	AuthorNetwork(authorID string) (types.CoauthorGraph, error)
	TrendingTopics(limit int) ([]types.TrendEntry, error)
	TrendingScientists(limit int) ([]types.TrendEntry, error)
	DefaultUserID() (string, error)
}

// Service orchestrates the engine packages behind the HTTP handlers:
// provider first, offline substitute on unavailability.
type Service struct {
	provider Provider
	offline  Fallback
	cfg      types.EngineConfig
	log      zerolog.Logger

	// now is swapped in tests to pin the trending windows.
	now func() time.Time
}

// NewService wires the orchestration layer.
func NewService(provider Provider, fallback Fallback, cfg types.EngineConfig, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		offline:  fallback,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// unavailable reports whether the provider gave up on the whole operation.
func unavailable(err error) bool {
	return errors.Is(err, openalex.ErrUnavailable)
}

// SearchTopics searches topics by name, live first.
func (s *Service) SearchTopics(ctx context.Context, query string, limit int) ([]types.TopicSummary, error) {
	topics, err := s.provider.SearchTopics(ctx, query, limit)
	if err == nil {
		return topics, nil
	}
	if !unavailable(err) {
		return nil, err
	}
	s.log.Warn().Str("query", query).Msg("topic search falling back to offline snapshot")
	return s.offline.SearchTopics(query, limit)
}

// SearchAuthors searches authors by name, live first.
func (s *Service) SearchAuthors(ctx context.Context, query string, limit int) ([]types.AuthorBrief, error) {
	authors, err := s.provider.SearchAuthors(ctx, query, limit)
	if err == nil {
		return authors, nil
	}
	if !unavailable(err) {
		return nil, err
	}
	s.log.Warn().Str("query", query).Msg("author search falling back to offline snapshot")
	return s.offline.SearchAuthors(query, limit)
}

// AuthorsByTopic lists the leading authors for a topic.
func (s *Service) AuthorsByTopic(ctx context.Context, topicID string, limit int) ([]types.AuthorBrief, error) {
	authors, err := s.provider.FetchAuthorsByTopic(ctx, topicID, limit)
	if err == nil {
		return authors, nil
	}
	if !unavailable(err) {
		return nil, err
	}
	return s.offline.AuthorsByTopic(topicID, limit)
}

// AuthorBrief returns one author's brief metadata.
func (s *Service) AuthorBrief(ctx context.Context, authorID string) (types.AuthorBrief, error) {
	brief, err := s.provider.FetchAuthorBrief(ctx, authorID)
	if err == nil {
		return brief, nil
	}
	if !unavailable(err) {
		return types.AuthorBrief{}, err
	}
	return s.offline.AuthorProfile(authorID)
}

// InstitutionsByTopic lists institutions active on a topic.
func (s *Service) InstitutionsByTopic(ctx context.Context, topicID string, limit int) ([]types.InstitutionSummary, error) {
	institutions, err := s.provider.FetchInstitutionsByTopic(ctx, topicID, limit)
	if err == nil {
		return institutions, nil
	}
	if !unavailable(err) {
		return nil, err
	}
	return s.offline.InstitutionsByTopic(topicID, limit)
}

// TopicNetwork builds the co-authorship graph over a topic's recent works.
func (s *Service) TopicNetwork(ctx context.Context, topicID string, limitWorks int) (types.CoauthorGraph, error) {
	works, err := s.provider.FetchWorks(ctx, "concepts.id:"+topicID, limitWorks, "")
	if err == nil {
		return graph.Build(works, ""), nil
	}
	if !unavailable(err) {
		return types.CoauthorGraph{}, err
	}
	return s.offline.TopicNetwork(topicID)
}

// AuthorNetwork builds the co-authorship graph centered on one author.
func (s *Service) AuthorNetwork(ctx context.Context, authorID string, limitWorks int) (types.CoauthorGraph, error) {
	works, err := s.provider.FetchWorks(ctx, "authorships.author.id:"+authorID, limitWorks, "")
	if err == nil {
		return graph.Build(works, authorID), nil
	}
	if !unavailable(err) {
		return types.CoauthorGraph{}, err
	}
	return s.offline.AuthorNetwork(authorID)
}

// ResearchProfile builds the full research profile for one author.
func (s *Service) ResearchProfile(ctx context.Context, authorID string) (types.ResearchProfile, error) {
	brief, err := s.provider.FetchAuthorBrief(ctx, authorID)
	if err == nil {
		var works []types.Work
		works, err = s.provider.FetchWorks(ctx, "authorships.author.id:"+authorID, s.cfg.WorksPerAuthor, "publication_date:desc")
		if err == nil {
			return profile.Build(brief, works), nil
		}
	}
	if !unavailable(err) {
		return types.ResearchProfile{}, err
	}

	s.log.Warn().Str("author", authorID).Msg("profile falling back to offline snapshot")
	brief, err = s.offline.AuthorProfile(authorID)
	if err != nil {
		return types.ResearchProfile{}, err
	}
	works, err := s.offline.AuthorWorks(authorID)
	if err != nil {
		return types.ResearchProfile{}, err
	}
	return profile.Build(brief, works), nil
}

// Compatibility scores the user against the target. A missing user id
// falls back to the configured default identity. When either profile
// cannot be built from any source the zeroed payload is returned rather
// than an error.
func (s *Service) Compatibility(ctx context.Context, userID, targetID string) (types.CompatibilityResult, error) {
	if userID == "" {
		userID = s.cfg.DefaultUserID
	}
	if userID == "" {
		var err error
		if userID, err = s.offline.DefaultUserID(); err != nil {
			return compat.Zeroed(), nil
		}
	}

	user, err := s.ResearchProfile(ctx, userID)
	if err != nil {
		s.log.Warn().Str("author", userID).Err(err).Msg("user profile unavailable, zeroed compatibility")
		return compat.Zeroed(), nil
	}
	target, err := s.ResearchProfile(ctx, targetID)
	if err != nil {
		s.log.Warn().Str("author", targetID).Err(err).Msg("target profile unavailable, zeroed compatibility")
		return compat.Zeroed(), nil
	}
	return compat.Compute(user, target), nil
}

// trendWindows derives the recent and previous publication-date filters.
// The recent window starts on Jan 1 of (currentYear - windowYears + 1);
// the previous window is the equally long window immediately before.
func (s *Service) trendWindows() (recentFilter, previousFilter string) {
	windowYears := s.cfg.TrendWindowYears
	if windowYears < 1 {
		windowYears = 1
	}
	currentYear := s.now().Year()
	recentStart := currentYear - windowYears + 1
	previousStart := recentStart - windowYears

	recentFilter = fmt.Sprintf("from_publication_date:%d-01-01", recentStart)
	previousFilter = fmt.Sprintf("from_publication_date:%d-01-01,to_publication_date:%d-12-31",
		previousStart, recentStart-1)
	return recentFilter, previousFilter
}

// TrendingTopics ranks topics by two-window growth and enriches the top
// candidates with concept briefs.
func (s *Service) TrendingTopics(ctx context.Context, limit int) ([]types.TrendEntry, error) {
	entries, err := s.trendingLive(ctx, "concepts.id", limit, s.enrichTopics)
	if err == nil {
		return entries, nil
	}
	if !unavailable(err) {
		return nil, err
	}
	s.log.Warn().Msg("trending topics falling back to offline snapshot")
	return s.offline.TrendingTopics(limit)
}

// TrendingScientists ranks authors by two-window growth and enriches the
// top candidates with author briefs.
func (s *Service) TrendingScientists(ctx context.Context, limit int) ([]types.TrendEntry, error) {
	entries, err := s.trendingLive(ctx, "authorships.author.id", limit, s.enrichScientists)
	if err == nil {
		return entries, nil
	}
	if !unavailable(err) {
		return nil, err
	}
	s.log.Warn().Msg("trending scientists falling back to offline snapshot")
	return s.offline.TrendingScientists(limit)
}

func (s *Service) trendingLive(
	ctx context.Context,
	groupBy string,
	limit int,
	enrich func(ctx context.Context, entries []types.TrendEntry),
) ([]types.TrendEntry, error) {
	recentFilter, previousFilter := s.trendWindows()

	recent, err := s.provider.FetchGroupedCounts(ctx, recentFilter, groupBy, s.cfg.TrendPerPage)
	if err != nil {
		return nil, err
	}
	previous, err := s.provider.FetchGroupedCounts(ctx, previousFilter, groupBy, s.cfg.TrendPerPage)
	if err != nil {
		return nil, err
	}

	candidates := trends.Rank(recent, previous, limit)
	enrich(ctx, candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (s *Service) enrichTopics(ctx context.Context, entries []types.TrendEntry) {
	briefs := fanout.Collect(ctx, s.log, entryIDs(entries), func(ctx context.Context, id string) (types.ConceptBrief, bool, error) {
		brief, err := s.provider.FetchConceptBrief(ctx, id)
		if err != nil {
			return types.ConceptBrief{}, false, err
		}
		return brief, true, nil
	}, s.cfg.FanoutConcurrency)

	for i := range entries {
		brief, ok := briefs[entries[i].ID]
		if !ok {
			continue
		}
		if brief.DisplayName != "" {
			entries[i].DisplayName = brief.DisplayName
		}
		entries[i].Description = brief.Description
		entries[i].WorksCount = brief.WorksCount
	}
}

func (s *Service) enrichScientists(ctx context.Context, entries []types.TrendEntry) {
	briefs := fanout.Collect(ctx, s.log, entryIDs(entries), func(ctx context.Context, id string) (types.AuthorBrief, bool, error) {
		brief, err := s.provider.FetchAuthorBrief(ctx, id)
		if err != nil {
			return types.AuthorBrief{}, false, err
		}
		return brief, true, nil
	}, s.cfg.FanoutConcurrency)

	for i := range entries {
		brief, ok := briefs[entries[i].ID]
		if !ok {
			continue
		}
		if brief.DisplayName != "" {
			entries[i].DisplayName = brief.DisplayName
		}
		entries[i].WorksCount = brief.WorksCount
		entries[i].CitedByCount = brief.CitedByCount
		entries[i].Institution = brief.Institution
	}
}

func entryIDs(entries []types.TrendEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
