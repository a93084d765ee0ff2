package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/pkg/logger"
	"github.com/fashionhub/storefront/pkg/schedule"

	"golang.org/x/sync/singleflight"
)

// CatalogFetcher loads the current product list from the API.
type CatalogFetcher interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// Refresher periodically refreshes the catalog store. Overlapping
// refreshes are collapsed: the scheduler entry skips a tick while a run
// is in flight, and manual Refresh calls share one in-flight fetch
// through a single-flight group.
type Refresher struct {
	fetcher  CatalogFetcher
	catalog  *CatalogStore
	interval time.Duration

	sf     singleflight.Group
	sched  *schedule.Scheduler
	cancel context.CancelFunc

	mu      sync.Mutex
	loading bool
	lastErr error
}

// NewRefresher creates a refresher over the fetcher and catalog store.
// The scheduler ticks at whole-second granularity, so intervals under one
// second are raised to one second.
func NewRefresher(fetcher CatalogFetcher, catalog *CatalogStore, interval time.Duration) *Refresher {
	if interval < time.Second {
		interval = time.Second
	}
	return &Refresher{
		fetcher:  fetcher,
		catalog:  catalog,
		interval: interval,
	}
}

// Interval returns the effective refresh period.
func (r *Refresher) Interval() time.Duration { return r.interval }

// Start begins periodic refreshes and performs one immediately so the
// catalog is populated before the first tick.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.Refresh(ctx)

	r.sched = schedule.New()
	seconds := int(r.interval / time.Second)
	r.sched.Every(seconds).Seconds().Named("catalog-refresh").NoOverlap().Do(func(ctx context.Context) {
		r.Refresh(ctx)
	})
	r.sched.Start(ctx)
}

// Stop cancels periodic refreshes and any in-flight fetch.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	if r.sched != nil {
		r.sched.Wait()
	}
}

// Refresh fetches the catalog once. Concurrent callers share a single
// in-flight fetch. A failed fetch records a visible error and keeps the
// previously loaded items so the UI can offer a retry.
func (r *Refresher) Refresh(ctx context.Context) error {
	_, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		r.setLoading(true)
		defer r.setLoading(false)

		items, err := r.fetcher.FetchProducts(ctx)
		if err != nil {
			r.setError(err)
			logger.Warn("storefront: catalog refresh failed", "error", err)
			return nil, err
		}

		r.catalog.SetItems(items)
		r.setError(nil)
		return nil, nil
	})
	return err
}

// Loading reports whether a fetch is in flight.
func (r *Refresher) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err returns the error from the most recent fetch, nil after a success.
func (r *Refresher) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Refresher) setLoading(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = v
}

func (r *Refresher) setError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
}
