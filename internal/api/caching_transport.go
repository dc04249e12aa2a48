package api

import (
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingHTTPClient creates an HTTP client with disk-based caching.
// Used for the public job listing, which the server may serve with
// Cache-Control headers.
func NewCachingHTTPClient(cacheDir string, timeout time.Duration) *http.Client {
	if cacheDir == "" {
		// Use in-memory cache if no cache directory specified
		return &http.Client{
			Timeout:   timeout,
			Transport: httpcache.NewTransport(httpcache.NewMemoryCache()),
		}
	}

	// Use disk-based cache for persistence across runs
	cache := diskcache.New(cacheDir)

	return &http.Client{
		Timeout:   timeout,
		Transport: httpcache.NewTransport(cache),
	}
}
