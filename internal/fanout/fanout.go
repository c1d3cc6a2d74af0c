// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fanout runs batches of independent enrichment lookups with a
// bounded worker pool, collapsing per-id failures to absence instead of
// aborting the batch.
package fanout

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Worker resolves one id. The bool reports whether a result exists; a
// false bool or a non-nil error both leave the id out of the collected
// map.
type Worker[T any] func(ctx context.Context, id string) (T, bool, error)

// Collect dispatches each id to worker with at most
// min(maxConcurrency, len(ids)) concurrent executions and returns the
// successful results keyed by id. Duplicate ids are collapsed before
// dispatch, preserving first-occurrence order. Worker errors are logged
// and dropped; one worker's failure never blocks or aborts its siblings,
// and Collect waits for every dispatched worker before returning.
// Callers must look results up by id: completion order carries no
// meaning.
func Collect[T any](ctx context.Context, log zerolog.Logger, ids []string, worker Worker[T], maxConcurrency int) map[string]T {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return map[string]T{}
	}

	limit := maxConcurrency
	if limit <= 0 {
		limit = 1
	}
	if limit > len(unique) {
		limit = len(unique)
	}

	results := make(map[string]T, len(unique))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, id := range unique {
		id := id
		g.Go(func() error {
			value, ok, err := worker(ctx, id)
			if err != nil {
				log.Warn().Str("id", id).Err(err).Msg("enrichment lookup failed")
				return nil
			}
			if !ok {
				log.Debug().Str("id", id).Msg("enrichment lookup missing")
				return nil
			}
			mu.Lock()
			results[id] = value
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors, so this only waits.
	g.Wait()
	return results
}

// dedupe removes duplicate ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
