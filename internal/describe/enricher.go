// Package describe lazily enriches heritage sites with short descriptive
// texts from a text-generation collaborator, caching results per browsing
// session so the same site is never described twice within a session.
package describe

import (
	"context"
	"fmt"

	"heritage/internal/metrics"
	"heritage/internal/models"
)

// TextGenerator is the upstream text-generation collaborator.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Enricher fetches descriptions on demand. Each site's enrichment is an
// independent operation; concurrent requests for different sites may be in
// flight simultaneously.
type Enricher struct {
	generator TextGenerator
}

// NewEnricher returns an Enricher backed by the given generator.
func NewEnricher(generator TextGenerator) *Enricher {
	return &Enricher{generator: generator}
}

// Describe returns the description for a site, serving from the session
// cache when possible. A miss triggers exactly one upstream request per id
// at a time: concurrent callers for the same uncached id wait for the leader
// and reuse its result. Failures leave the cache entry absent so a later
// call can retry.
func (e *Enricher) Describe(ctx context.Context, cache *Cache, id, name, state string) (string, error) {
	if text, ok := cache.Get(id); ok {
		metrics.DescribeCacheHitsTotal.Inc()
		return text, nil
	}

	done, leader := cache.begin(id)
	if !leader {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-done:
		}
		if text, ok := cache.Get(id); ok {
			metrics.DescribeCacheHitsTotal.Inc()
			return text, nil
		}
		// The leader failed; report the miss without retrying here so the
		// caller keeps its retry affordance.
		return "", fmt.Errorf("describe %s: concurrent fetch failed", id)
	}
	defer cache.finish(id)

	metrics.DescribeCacheMissesTotal.Inc()
	text, err := e.generator.GenerateText(ctx, Prompt(name, state))
	if err != nil {
		metrics.DescribeFailuresTotal.Inc()
		return "", fmt.Errorf("describe %s: %w", id, err)
	}
	cache.Put(id, text)
	return text, nil
}

// DescribeSite is Describe for a normalized site, deriving the region hint
// from its raw tags.
func (e *Enricher) DescribeSite(ctx context.Context, cache *Cache, site models.Site) (string, error) {
	return e.Describe(ctx, cache, site.ID, site.Name, RegionHint(site.RawTags))
}

// RegionHint extracts a state hint from raw tags, preferring the direct
// state tag over the is_in variant.
func RegionHint(tags map[string]string) string {
	if v := tags["state"]; v != "" {
		return v
	}
	return tags["is_in:state"]
}

// Prompt builds the description prompt for a site name and optional state.
func Prompt(name, state string) string {
	if state == "" {
		state = "India"
	}
	return fmt.Sprintf("Give a 2-sentence cultural/historical description of %q in %s. Avoid fluff and dates unless important.", name, state)
}
