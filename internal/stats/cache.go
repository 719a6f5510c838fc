package stats

import (
	"context"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/clever-tips/internal/metrics"
	"github.com/yourusername/clever-tips/internal/models"
)

// CachedFormProvider keeps team form in memory in front of another FormProvider.
// Errors are never cached.
type CachedFormProvider struct {
	provider FormProvider
	cache    *cache.Cache
	ttl      time.Duration

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedFormProvider wraps provider with a TTL cache
func NewCachedFormProvider(provider FormProvider, ttl time.Duration) *CachedFormProvider {
	return &CachedFormProvider{
		provider: provider,
		cache:    cache.New(ttl, ttl*2),
		ttl:      ttl,
	}
}

// Form returns the cached form for team, fetching it on a miss
func (p *CachedFormProvider) Form(ctx context.Context, team, league string) (models.TeamForm, error) {
	key := formKey(team, league)

	if cached, found := p.cache.Get(key); found {
		if form, ok := cached.(models.TeamForm); ok {
			p.record(true)
			return form, nil
		}
	}
	p.record(false)

	form, err := p.provider.Form(ctx, team, league)
	if err != nil {
		return models.TeamForm{}, err
	}

	p.cache.Set(key, form, p.ttl)
	return form, nil
}

// Stats returns cache statistics
func (p *CachedFormProvider) Stats() (hits, misses uint64, ratio float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	hits = p.hitCount
	misses = p.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (p *CachedFormProvider) ItemCount() int {
	return p.cache.ItemCount()
}

// Clear flushes the entire cache
func (p *CachedFormProvider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache.Flush()
	p.hitCount = 0
	p.missCount = 0
}

func (p *CachedFormProvider) record(hit bool) {
	p.mu.Lock()
	if hit {
		p.hitCount++
	} else {
		p.missCount++
	}
	p.mu.Unlock()
	metrics.RecordFormCacheLookup(hit)
}

func formKey(team, league string) string {
	return strings.ToLower(strings.TrimSpace(team)) + "|" + strings.ToLower(strings.TrimSpace(league))
}
