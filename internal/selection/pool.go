package selection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cadell/conjugo-api/internal/catalog"
	"github.com/cadell/conjugo-api/internal/domain"
)

// CombinationIndex provides O(1) lookups into a form set by conjugation
// slot. Four bucket maps cover the region-agnostic and region-qualified
// variants of the two lookup shapes. The index is derived data: built in a
// single pass at pool construction and never mutated afterwards.
type CombinationIndex struct {
	byMoodTense             map[string][]domain.Form
	byMoodTensePerson       map[string][]domain.Form
	byRegionMoodTense       map[string][]domain.Form
	byRegionMoodTensePerson map[string][]domain.Form
}

func buildCombinationIndex(forms []domain.Form) *CombinationIndex {
	idx := &CombinationIndex{
		byMoodTense:             make(map[string][]domain.Form),
		byMoodTensePerson:       make(map[string][]domain.Form),
		byRegionMoodTense:       make(map[string][]domain.Form),
		byRegionMoodTensePerson: make(map[string][]domain.Form),
	}
	for _, f := range forms {
		mt := f.Mood + "|" + f.Tense
		mtp := mt + "|" + f.Person
		idx.byMoodTense[mt] = append(idx.byMoodTense[mt], f)
		idx.byMoodTensePerson[mtp] = append(idx.byMoodTensePerson[mtp], f)
		idx.byRegionMoodTense[f.Region+"|"+mt] = append(idx.byRegionMoodTense[f.Region+"|"+mt], f)
		idx.byRegionMoodTensePerson[f.Region+"|"+mtp] = append(idx.byRegionMoodTensePerson[f.Region+"|"+mtp], f)
	}
	return idx
}

// FormsFor returns every form matching the mood and tense, any person.
func (idx *CombinationIndex) FormsFor(mood, tense string) []domain.Form {
	return idx.byMoodTense[mood+"|"+tense]
}

// FormsForPerson returns every form matching the full slot coordinate.
func (idx *CombinationIndex) FormsForPerson(mood, tense, person string) []domain.Form {
	return idx.byMoodTensePerson[mood+"|"+tense+"|"+person]
}

// RegionFormsFor is the region-qualified variant of FormsFor.
func (idx *CombinationIndex) RegionFormsFor(region, mood, tense string) []domain.Form {
	return idx.byRegionMoodTense[region+"|"+mood+"|"+tense]
}

// RegionFormsForPerson is the region-qualified variant of FormsForPerson.
func (idx *CombinationIndex) RegionFormsForPerson(region, mood, tense, person string) []domain.Form {
	return idx.byRegionMoodTensePerson[region+"|"+mood+"|"+tense+"|"+person]
}

// FormsPool is an immutable snapshot of the forms eligible under one
// settings signature. Callers must treat Forms as read-only; the resolver
// hands the same snapshot to every caller until the signature changes.
type FormsPool struct {
	Forms     []domain.Form
	Signature string

	index *CombinationIndex
}

// Index returns the pool's combination index, building it on first use.
// Pools deserialized or constructed without an index get one lazily.
func (p *FormsPool) Index() *CombinationIndex {
	if p.index == nil {
		p.index = buildCombinationIndex(p.Forms)
	}
	return p.index
}

// Cache holds the most recently resolved pool. It is an explicit object
// threaded through calls rather than package state, so independent sessions
// (and tests) never share pools accidentally. A Cache must not be shared
// across concurrent selection calls.
type Cache struct {
	pool *FormsPool
}

// NewCache returns an empty pool cache.
func NewCache() *Cache {
	return &Cache{}
}

// ResolveStats reports how a pool resolution was satisfied.
type ResolveStats struct {
	Reused   bool
	Duration time.Duration
}

// PoolResolver resolves the eligible forms pool for a settings and region
// combination, reusing the cached pool whenever the settings signature
// matches. Regeneration is the only heavy operation in the selection
// pipeline; everything downstream works on the returned snapshot.
type PoolResolver struct {
	generator catalog.Generator
	logger    *slog.Logger
}

// NewPoolResolver creates a resolver backed by the given forms generator.
// If logger is nil, a default logger will be used.
func NewPoolResolver(generator catalog.Generator, logger *slog.Logger) *PoolResolver {
	if generator == nil {
		panic("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PoolResolver{
		generator: generator,
		logger:    logger.With(slog.String("component", "pool_resolver")),
	}
}

// Resolve returns the forms pool for the region and settings. When the
// cached pool's signature matches, it is returned unchanged (its index is
// built lazily if missing); otherwise the full form set is regenerated from
// the catalog and the cache is replaced. Stale pools are discarded whole,
// never patched in place.
func (r *PoolResolver) Resolve(
	ctx context.Context,
	region string,
	settings domain.Settings,
	cache *Cache,
) (*FormsPool, ResolveStats, error) {
	signature := catalog.CacheKey(region, settings)

	if cache != nil && cache.pool != nil &&
		cache.pool.Signature == signature && len(cache.pool.Forms) > 0 {
		return cache.pool, ResolveStats{Reused: true}, nil
	}

	start := time.Now()
	forms, err := r.generator.GenerateAllForms(ctx, region, settings)
	if err != nil {
		return nil, ResolveStats{}, fmt.Errorf("failed to generate forms pool: %w", err)
	}

	pool := &FormsPool{
		Forms:     forms,
		Signature: signature,
		index:     buildCombinationIndex(forms),
	}
	stats := ResolveStats{Reused: false, Duration: time.Since(start)}

	if cache != nil {
		cache.pool = pool
	}

	r.logger.Debug("regenerated forms pool",
		slog.String("signature", signature),
		slog.Int("forms", len(forms)),
		slog.Duration("duration", stats.Duration))

	return pool, stats, nil
}
