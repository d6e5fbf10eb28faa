package geoip

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// defaultProviderTimeout bounds each provider call. The free tiers of
// these services answer in well under a second when healthy; waiting
// longer only delays the scan for a result the next provider can supply.
const defaultProviderTimeout = 3 * time.Second

// maxResponseSize limits provider response bodies. Real answers are a few
// hundred bytes of JSON.
const maxResponseSize = 1 << 20

// Resolver looks up IP geolocation through a provider chain.
//
// Design decision: We keep a shared http.Client on the struct rather than
// creating one per lookup because:
//  1. Connection pooling matters when every scan triggers a lookup
//  2. Tests can swap in a client pointed at a local server
//  3. Timeout policy lives in one place
type Resolver struct {
	// client is the HTTP client used for all provider calls.
	client *http.Client

	// cache, when set, is consulted before the provider chain and updated
	// with every resolved lookup.
	cache Cache

	// providers is the ordered chain. Earlier entries are preferred.
	providers []provider

	// timeout bounds each individual provider call.
	timeout time.Duration

	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHTTPClient sets the HTTP client used for provider calls.
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithCache enables lookup caching.
func WithCache(cache Cache) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithProviderTimeout sets the per-provider timeout.
func WithProviderTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger for provider failures.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver with the default provider chain.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:    &http.Client{},
		providers: defaultProviders(),
		timeout:   defaultProviderTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup resolves ip to geolocation data. It never fails: fields no
// provider could supply stay at the Unknown sentinel, and the IP version
// is computed locally from the address syntax.
func (r *Resolver) Lookup(ctx context.Context, ip string) model.GeoInfo {
	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, ip); ok {
			return cached
		}
	}

	info := model.NewGeoInfo(ip)
	for _, p := range r.providers {
		partial, ok := r.fetch(ctx, p, ip)
		if !ok {
			continue
		}
		info.Merge(partial)
		if info.Resolved() {
			break
		}
	}

	if r.cache != nil {
		r.cache.Set(ctx, ip, info)
	}
	return info
}

// fetch calls one provider and parses its answer. Any failure, from
// network error to malformed JSON, reports ok=false so the chain moves on.
func (r *Resolver) fetch(ctx context.Context, p provider, ip string) (model.GeoInfo, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url(ip), nil)
	if err != nil {
		return model.GeoInfo{}, false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("geolocation provider unreachable",
			slog.String("provider", p.name), slog.String("error", err.Error()))
		return model.GeoInfo{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("geolocation provider refused lookup",
			slog.String("provider", p.name), slog.Int("status", resp.StatusCode))
		return model.GeoInfo{}, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return model.GeoInfo{}, false
	}

	partial, ok := p.parse(body)
	if !ok {
		r.logger.Debug("geolocation provider returned unusable data",
			slog.String("provider", p.name))
	}
	return partial, ok
}
