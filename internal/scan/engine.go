package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hydro414e13/prvcsh/internal/breach"
	"github.com/hydro414e13/prvcsh/internal/model"
	"github.com/hydro414e13/prvcsh/internal/normalize"
	"github.com/hydro414e13/prvcsh/internal/score"
)

// Dimensions lists every telemetry field of the submission contract. The
// web layer pulls exactly these names from the request body; an absent
// field scores as an untested dimension.
var Dimensions = []string{
	"fingerprint",
	"webrtc",
	"dns",
	"email",
	"cookies",
	"canvas",
	"permissions",
	"ssl",
	"password",
	"authenticity",
	"behavior",
	"antibot",
	"privacy_extensions",
	"extensions",
	"hardware",
	"battery",
	"audio",
	"fonts",
	"securityHeaders",
	"timezone",
	"do_not_track",
	"language",
}

// GeoResolver resolves the geographic context of a client address.
type GeoResolver interface {
	Lookup(ctx context.Context, ip string) model.GeoInfo
}

// Classifier detects the VPN/proxy/Tor posture of a client address.
type Classifier interface {
	Classify(ctx context.Context, ip string, headers http.Header) model.VPNProxyInfo
}

// Store persists finished scan records.
type Store interface {
	Save(ctx context.Context, rec *model.ScanRecord) (int64, error)
}

// Input is one scan submission: the caller's identity and transport
// context plus the raw per-dimension JSON blobs, keyed by wire name.
type Input struct {
	SessionID  string
	IP         string
	Headers    http.Header
	Dimensions map[string]json.RawMessage
}

// Engine runs scans. It owns ordering, not computation: normalizers and
// scorers are pure functions, and the injected resolver, classifier and
// store carry all external state.
//
// Design decision: The engine takes interfaces rather than the concrete
// geoip/netintel types because:
//  1. Handler tests need scans without network access
//  2. The resolvers already degrade internally, so one method each is the
//     whole contract
//  3. The server package stays free of provider configuration
type Engine struct {
	geo    GeoResolver
	intel  Classifier
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates a scan engine over the given resolver, classifier and store.
func New(geo GeoResolver, intel Classifier, store Store, opts ...Option) *Engine {
	e := &Engine{
		geo:   geo,
		intel: intel,
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Scan processes one submission end to end: decode, normalize, resolve the
// IP context, score, persist. External lookups run concurrently and fall
// back to defaults on failure; only persistence can fail the scan.
func (e *Engine) Scan(ctx context.Context, input Input) (*model.ScanRecord, error) {
	dims := e.decode(input.Dimensions)

	// The email dimension may carry a client-side breach verdict. When it
	// only carries the address, the estimate runs here alongside the
	// network lookups.
	emailSig, address := normalize.Email(dims["email"])

	var (
		geo model.GeoInfo
		vpn model.VPNProxyInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		geo = e.geo.Lookup(gctx, input.IP)
		return nil
	})
	g.Go(func() error {
		vpn = e.intel.Classify(gctx, input.IP, input.Headers)
		return nil
	})
	if address != "" {
		g.Go(func() error {
			emailSig.Leaked, emailSig.BreachSites = breach.Estimate(address)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // Lookups degrade to defaults instead of failing the scan.

	rec := &model.ScanRecord{
		SessionID:   input.SessionID,
		CreatedAt:   e.now().UTC(),
		Geo:         geo,
		VPNProxy:    vpn,
		HeadersJSON: encodeHeaders(input.Headers),

		Fingerprint:       normalize.Fingerprint(dims["fingerprint"]),
		WebRTC:            normalize.WebRTC(dims["webrtc"], input.IP),
		DNSLeak:           normalize.DNSLeak(dims["dns"]),
		Email:             emailSig,
		Cookies:           normalize.Cookies(dims["cookies"]),
		Canvas:            normalize.Canvas(dims["canvas"]),
		Permissions:       normalize.Permissions(dims["permissions"]),
		SSL:               normalize.SSL(dims["ssl"]),
		Password:          normalize.Password(dims["password"]),
		Extensions:        normalize.Extensions(dims["extensions"]),
		Hardware:          normalize.Hardware(dims["hardware"]),
		Battery:           normalize.Battery(dims["battery"]),
		Audio:             normalize.Audio(dims["audio"]),
		Fonts:             normalize.Fonts(dims["fonts"]),
		SecurityHeaders:   normalize.SecurityHeaders(dims["securityHeaders"]),
		Timezone:          normalize.Timezone(dims["timezone"]),
		Authenticity:      normalize.Authenticity(dims["authenticity"]),
		Behavior:          normalize.Behavior(dims["behavior"]),
		Antibot:           normalize.Antibot(dims["antibot"]),
		PrivacyExtensions: normalize.PrivacyExtensions(dims["privacy_extensions"]),
		DoNotTrack:        normalize.DoNotTrack(dims["do_not_track"]),
		DNSCountry:        normalize.DNSCountry(dims["dns"], geo.CountryCode),
		Language:          normalize.LanguageLocation(dims["language"], geo.CountryCode),
	}

	rec.Score = score.Anonymity(rec)
	rec.RiskLevel = model.RiskLevelFromScore(rec.Score.Score)

	id, err := e.store.Save(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("save scan record: %w", err)
	}
	rec.ID = id

	e.logger.Info("scan recorded",
		"id", id,
		"session", input.SessionID,
		"score", rec.Score.Score,
		"risk", rec.RiskLevel.String(),
		"penalties", len(rec.Score.Penalties),
	)

	return rec, nil
}

// decode parses each dimension blob into a loose map. Malformed blobs are
// dropped so the dimension scores as untested, matching the contract that
// bad client data never fails a scan.
func (e *Engine) decode(raw map[string]json.RawMessage) map[string]map[string]any {
	dims := make(map[string]map[string]any, len(raw))
	for name, blob := range raw {
		if len(blob) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(blob, &m); err != nil {
			e.logger.Debug("dropping malformed dimension", "dimension", name, "error", err)
			continue
		}
		dims[name] = m
	}
	return dims
}

// encodeHeaders flattens request headers to a stored JSON object, first
// value per key. Malformed stored content is tolerated on the way back.
func encodeHeaders(h http.Header) string {
	if len(h) == 0 {
		return ""
	}
	m := make(map[string]string, len(h))
	for k, vals := range h {
		if len(vals) > 0 {
			m[k] = vals[0]
		}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}
