package storefront_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/internal/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type fakeFetcher struct {
	mu    sync.Mutex
	items []models.Product
	err   error
	calls atomic.Int32
	block chan struct{}
}

func (f *fakeFetcher) FetchProducts(ctx context.Context) ([]models.Product, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.err
}

func (f *fakeFetcher) set(items []models.Product, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	f.err = err
}

func TestRefreshPopulatesCatalog(t *testing.T) {
	fetcher := &fakeFetcher{items: sampleCatalog()}
	catalog := storefront.NewCatalogStore(language.English)
	r := storefront.NewRefresher(fetcher, catalog, time.Minute)

	require.NoError(t, r.Refresh(context.Background()))
	assert.Len(t, catalog.Items(), 5)
	assert.NoError(t, r.Err())
}

func TestRefreshFailureKeepsPreviousItemsAndSetsError(t *testing.T) {
	fetcher := &fakeFetcher{items: sampleCatalog()}
	catalog := storefront.NewCatalogStore(language.English)
	r := storefront.NewRefresher(fetcher, catalog, time.Minute)
	require.NoError(t, r.Refresh(context.Background()))

	fetcher.set(nil, errors.New("connection refused"))
	require.Error(t, r.Refresh(context.Background()))

	// The stale catalog stays visible for a retry.
	assert.Len(t, catalog.Items(), 5)
	assert.Error(t, r.Err())

	// A successful retry clears the error.
	fetcher.set(sampleCatalog()[:2], nil)
	require.NoError(t, r.Refresh(context.Background()))
	assert.Len(t, catalog.Items(), 2)
	assert.NoError(t, r.Err())
}

func TestRefresherRaisesSubSecondInterval(t *testing.T) {
	fetcher := &fakeFetcher{}
	catalog := storefront.NewCatalogStore(language.English)

	r := storefront.NewRefresher(fetcher, catalog, 300*time.Millisecond)
	assert.Equal(t, time.Second, r.Interval())

	r = storefront.NewRefresher(fetcher, catalog, 5*time.Second)
	assert.Equal(t, 5*time.Second, r.Interval())
}

func TestRefreshConcurrentCallsShareOneFetch(t *testing.T) {
	fetcher := &fakeFetcher{items: sampleCatalog(), block: make(chan struct{})}
	catalog := storefront.NewCatalogStore(language.English)
	r := storefront.NewRefresher(fetcher, catalog, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Refresh(context.Background())
		}()
	}

	// Give the goroutines time to pile onto the single flight.
	time.Sleep(50 * time.Millisecond)
	close(fetcher.block)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
}
