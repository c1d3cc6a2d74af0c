// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex implements the works/authors provider on top of the
// OpenAlex API. The client degrades gracefully around known API quirks
// (deprecated select fields, page-size limits, 429 throttling) and
// reports ErrUnavailable when an operation cannot be completed at all, so
// callers can fall back to the offline substitute dataset.
package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/collab-finder/internal/httputil"
	"github.com/pdiddy/collab-finder/pkg/types"
)

// ErrUnavailable reports that upstream data could not be obtained for an
// entire operation. Callers check it with errors.Is and switch to the
// offline substitute; it is never a crash.
var ErrUnavailable = errors.New("openalex unavailable")

// Field selections sent with list queries to keep payloads small.
const (
	worksSelect  = "id,title,display_name,publication_year,cited_by_count,authorships,concepts"
	authorSelect = "id,display_name,works_count,cited_by_count,last_known_institutions"
)

const maxPerPage = 200

// Client queries the OpenAlex API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mailto     string
	userAgent  string
	maxRetries int
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient builds a provider client from configuration. A zero
// RequestsPerSecond disables client-side rate limiting.
func NewClient(cfg types.ProviderConfig, log zerolog.Logger) *Client {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		mailto:     cfg.Mailto,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		limiter:    limiter,
		log:        log,
	}
}

// getJSON performs one GET against the API and decodes the response into
// out. Every failure mode wraps ErrUnavailable.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
		}
	}

	query := url.Values{}
	for k, vs := range params {
		query[k] = vs
	}
	if c.mailto != "" && query.Get("mailto") == "" {
		query.Set("mailto", c.mailto)
	}

	reqURL := c.baseURL + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		c.log.Warn().Str("endpoint", endpoint).Err(err).Msg("openalex request failed")
		return fmt.Errorf("%w: GET %s: %v", ErrUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Str("endpoint", endpoint).Int("status", resp.StatusCode).Msg("openalex request failed")
		return fmt.Errorf("%w: GET %s: HTTP %d", ErrUnavailable, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: parsing %s response: %v", ErrUnavailable, endpoint, err)
	}
	return nil
}

// getAuthorJSON fetches author data, retrying around the deprecated
// plural select field: first swap last_known_institutions for the
// singular form, then drop the select entirely.
func (c *Client) getAuthorJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	err := c.getJSON(ctx, endpoint, params, out)
	if err == nil || params.Get("select") == "" {
		return err
	}

	sel := params.Get("select")
	if replaced := replaceSelectField(sel, "last_known_institutions", "last_known_institution"); replaced != sel {
		fallback := cloneValues(params)
		fallback.Set("select", replaced)
		if err := c.getJSON(ctx, endpoint, fallback, out); err == nil {
			return nil
		}
	}

	stripped := cloneValues(params)
	stripped.Del("select")
	return c.getJSON(ctx, endpoint, stripped, out)
}

// getWorksJSON fetches works data, retrying without the select filter and
// then with a smaller page size.
func (c *Client) getWorksJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	err := c.getJSON(ctx, endpoint, params, out)
	if err == nil {
		return nil
	}

	if params.Get("select") != "" {
		stripped := cloneValues(params)
		stripped.Del("select")
		if err = c.getJSON(ctx, endpoint, stripped, out); err == nil {
			return nil
		}
		params = stripped
	}

	if perPage, _ := strconv.Atoi(params.Get("per_page")); perPage > 50 {
		reduced := cloneValues(params)
		reduced.Set("per_page", "50")
		return c.getJSON(ctx, endpoint, reduced, out)
	}
	return err
}

// getInstitutionJSON fetches institution data with a smaller page size
// fallback.
func (c *Client) getInstitutionJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	err := c.getJSON(ctx, endpoint, params, out)
	if err == nil {
		return nil
	}
	if perPage, _ := strconv.Atoi(params.Get("per_page")); perPage > 50 {
		reduced := cloneValues(params)
		reduced.Set("per_page", "50")
		return c.getJSON(ctx, endpoint, reduced, out)
	}
	return err
}

// FetchWorks returns normalized works matching the filter. perPage is
// clamped to [1, 200]; sort is optional.
func (c *Client) FetchWorks(ctx context.Context, filter string, perPage int, sort string) ([]types.Work, error) {
	params := url.Values{
		"filter":   {filter},
		"per_page": {strconv.Itoa(clampPerPage(perPage))},
		"select":   {worksSelect},
	}
	if sort != "" {
		params.Set("sort", sort)
	}

	var resp rawListResponse[rawWork]
	if err := c.getWorksJSON(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}
	return normalizeWorks(resp.Results), nil
}

// FetchAuthorBrief returns the brief metadata for one author id.
func (c *Client) FetchAuthorBrief(ctx context.Context, id string) (types.AuthorBrief, error) {
	var raw rawAuthorRecord
	if err := c.getAuthorJSON(ctx, "/authors/"+url.PathEscape(id), url.Values{}, &raw); err != nil {
		return types.AuthorBrief{}, err
	}
	return normalizeAuthorBrief(raw), nil
}

// FetchConceptBrief returns the brief metadata for one concept id.
func (c *Client) FetchConceptBrief(ctx context.Context, id string) (types.ConceptBrief, error) {
	var raw rawConceptRecord
	if err := c.getJSON(ctx, "/concepts/"+url.PathEscape(id), url.Values{}, &raw); err != nil {
		return types.ConceptBrief{}, err
	}
	return normalizeConceptBrief(raw), nil
}

// FetchGroupedCounts returns grouped work counts for the filter, keyed by
// the group key.
func (c *Client) FetchGroupedCounts(ctx context.Context, filter, groupBy string, perPage int) (map[string]types.GroupCount, error) {
	params := url.Values{
		"group_by": {groupBy},
		"per_page": {strconv.Itoa(clampPerPage(perPage))},
	}
	if filter != "" {
		params.Set("filter", filter)
	}

	var resp rawListResponse[rawWork]
	if err := c.getWorksJSON(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}

	grouped := make(map[string]types.GroupCount, len(resp.GroupBy))
	for _, g := range resp.GroupBy {
		if g.Key == "" {
			continue
		}
		grouped[g.Key] = types.GroupCount{Count: g.Count, DisplayName: g.KeyDisplayName}
	}
	return grouped, nil
}

// SearchTopics searches topics by name.
func (c *Client) SearchTopics(ctx context.Context, query string, limit int) ([]types.TopicSummary, error) {
	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(clampLimit(limit, 50))},
	}
	var resp rawListResponse[rawConceptRecord]
	if err := c.getJSON(ctx, "/topics", params, &resp); err != nil {
		return nil, err
	}

	topics := make([]types.TopicSummary, 0, len(resp.Results))
	for _, r := range resp.Results {
		topics = append(topics, types.TopicSummary{
			ID:          r.ID,
			DisplayName: r.DisplayName,
			Description: r.Description,
			WorksCount:  r.WorksCount,
		})
	}
	return topics, nil
}

// SearchAuthors searches authors by name.
func (c *Client) SearchAuthors(ctx context.Context, query string, limit int) ([]types.AuthorBrief, error) {
	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(clampLimit(limit, 50))},
		"select":   {authorSelect},
	}
	return c.fetchAuthorList(ctx, params)
}

// FetchAuthorsByTopic lists the most prolific authors tagged with the
// topic.
func (c *Client) FetchAuthorsByTopic(ctx context.Context, topicID string, limit int) ([]types.AuthorBrief, error) {
	params := url.Values{
		"filter":   {"concepts.id:" + topicID},
		"sort":     {"works_count:desc"},
		"per_page": {strconv.Itoa(clampLimit(limit, maxPerPage))},
		"select":   {authorSelect},
	}
	return c.fetchAuthorList(ctx, params)
}

func (c *Client) fetchAuthorList(ctx context.Context, params url.Values) ([]types.AuthorBrief, error) {
	var resp rawListResponse[rawAuthorRecord]
	if err := c.getAuthorJSON(ctx, "/authors", params, &resp); err != nil {
		return nil, err
	}
	authors := make([]types.AuthorBrief, 0, len(resp.Results))
	for _, r := range resp.Results {
		authors = append(authors, normalizeAuthorBrief(r))
	}
	return authors, nil
}

// FetchInstitutionsByTopic lists institutions associated with the topic.
func (c *Client) FetchInstitutionsByTopic(ctx context.Context, topicID string, limit int) ([]types.InstitutionSummary, error) {
	params := url.Values{
		"filter":   {"concepts.id:" + topicID},
		"sort":     {"works_count:desc"},
		"per_page": {strconv.Itoa(clampLimit(limit, maxPerPage))},
	}
	var resp rawListResponse[rawInstitutionRecord]
	if err := c.getInstitutionJSON(ctx, "/institutions", params, &resp); err != nil {
		return nil, err
	}
	institutions := make([]types.InstitutionSummary, 0, len(resp.Results))
	for _, r := range resp.Results {
		institutions = append(institutions, normalizeInstitutionSummary(r))
	}
	return institutions, nil
}

func clampPerPage(perPage int) int {
	if perPage < 1 {
		return 1
	}
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}

func clampLimit(limit, max int) int {
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}

func cloneValues(params url.Values) url.Values {
	cloned := make(url.Values, len(params))
	for k, vs := range params {
		cloned[k] = append([]string(nil), vs...)
	}
	return cloned
}

// replaceSelectField swaps one field of a comma-separated select list for
// another, deduplicating if the replacement is already present.
func replaceSelectField(sel, from, to string) string {
	var fields []string
	seen := make(map[string]bool)
	replaced := false
	for _, f := range splitSelect(sel) {
		if f == from {
			f = to
			replaced = true
		}
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	if !replaced {
		return sel
	}
	return strings.Join(fields, ",")
}

func splitSelect(sel string) []string {
	var fields []string
	for _, f := range strings.Split(sel, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
