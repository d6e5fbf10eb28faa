package netintel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// defaultIntelBaseURL is the IP reputation service. The fields parameter
// keeps the answer down to the four fields the classifier reads.
const defaultIntelBaseURL = "http://ip-api.com"

// defaultIntelTimeout bounds the reputation call.
const defaultIntelTimeout = 3 * time.Second

// proxyPresenceHeaders are request headers whose mere presence indicates a
// forwarding hop. X-Forwarded-For is handled separately: reverse proxies
// set it routinely, so only a multi-address chain counts.
var proxyPresenceHeaders = []string{
	"Via",
	"Forwarded",
	"Proxy-Authorization",
	"Proxy-Connection",
}

// vpnKeywords are operator-name substrings that mark commercial anonymity
// infrastructure.
var vpnKeywords = []string{"vpn", "virtual private", "proxy", "tor", "exit", "relay"}

// hostingASNs are autonomous systems that overwhelmingly host servers
// rather than residential users: a scan from one of these is very likely
// tunneled. Consulted only when the reputation service is unreachable.
var hostingASNs = map[string]bool{
	"16509": true, // Amazon AWS
	"14618": true, // Amazon AWS
	"16276": true, // OVH
	"15169": true, // Google
	"4837":  true, // China Unicom
	"3356":  true, // Lumen
	"174":   true, // Cogent
	"2914":  true, // NTT
	"24940": true, // Hetzner
}

// torExitPrefixes are address ranges with heavy Tor exit node presence.
var torExitPrefixes = []string{"185.220.", "51.15.", "51.75.", "95.216."}

// GeoLookup is the slice of the geoip resolver the ASN fallback needs.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) model.GeoInfo
}

// Classifier decides how a scan's traffic reached us.
type Classifier struct {
	// client is the HTTP client for the reputation call.
	client *http.Client

	// geo supplies ASN data for the fallback check. May be nil, which
	// disables the fallback.
	geo GeoLookup

	// baseURL is the reputation service root, swappable in tests.
	baseURL string

	// timeout bounds the reputation call.
	timeout time.Duration

	logger *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithHTTPClient sets the HTTP client for the reputation call.
func WithHTTPClient(client *http.Client) ClassifierOption {
	return func(c *Classifier) {
		c.client = client
	}
}

// WithGeoLookup enables the ASN fallback using the given resolver.
func WithGeoLookup(geo GeoLookup) ClassifierOption {
	return func(c *Classifier) {
		c.geo = geo
	}
}

// WithIntelTimeout sets the reputation call timeout.
func WithIntelTimeout(timeout time.Duration) ClassifierOption {
	return func(c *Classifier) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger for lookup failures.
func WithLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// NewClassifier creates a Classifier.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		client:  &http.Client{},
		baseURL: defaultIntelBaseURL,
		timeout: defaultIntelTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify inspects the scan's source address and request headers and
// reports every tunnel indicator that fires. It never fails; with no IP
// and no evidence the result is simply all-negative.
func (c *Classifier) Classify(ctx context.Context, ip string, headers http.Header) model.VPNProxyInfo {
	info := model.NewVPNProxyInfo()
	if ip == "" || ip == model.Unknown {
		return info
	}

	if hasProxyHeaders(headers) {
		info.IsProxy = true
		info.ProxyType = model.ProxyTypeHTTP
	}

	intel, err := c.fetchIntel(ctx, ip)
	if err != nil {
		c.logger.Warn("reputation lookup failed, falling back to ASN list",
			slog.String("ip", ip), slog.String("error", err.Error()))
		if c.asnFallback(ctx, ip) {
			info.IsVPN = true
		}
	} else {
		c.applyIntel(intel, &info)
	}

	for _, prefix := range torExitPrefixes {
		if strings.HasPrefix(ip, prefix) {
			info.IsTor = true
			info.ProxyType = model.ProxyTypeTor
			break
		}
	}
	return info
}

// hasProxyHeaders reports whether the request carries headers that only a
// forwarding hop would add.
func hasProxyHeaders(headers http.Header) bool {
	for _, name := range proxyPresenceHeaders {
		if len(headers.Values(name)) > 0 {
			return true
		}
	}
	// A single X-Forwarded-For entry is normal behind our own reverse
	// proxy; a comma means an upstream chain.
	return strings.Contains(strings.Join(headers.Values("X-Forwarded-For"), ","), ",")
}

// intelAnswer is the slice of the reputation response the classifier uses.
type intelAnswer struct {
	Proxy   bool   `json:"proxy"`
	Hosting bool   `json:"hosting"`
	Org     string `json:"org"`
	AS      string `json:"as"`
}

// fetchIntel calls the reputation service. A non-200 answer yields a zero
// intelAnswer with nil error: the service worked, it just had nothing to
// say, and the ASN fallback must not second-guess it.
func (c *Classifier) fetchIntel(ctx context.Context, ip string) (intelAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/json/%s?fields=proxy,hosting,org,as", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return intelAnswer{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return intelAnswer{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return intelAnswer{}, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return intelAnswer{}, err
	}
	var answer intelAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return intelAnswer{}, err
	}
	return answer, nil
}

// applyIntel folds the reputation answer into the classification.
func (c *Classifier) applyIntel(intel intelAnswer, info *model.VPNProxyInfo) {
	if intel.Proxy || intel.Hosting {
		info.IsVPN = true
	}

	org := strings.ToLower(intel.Org)
	asn := strings.ToLower(intel.AS)
	for _, keyword := range vpnKeywords {
		if strings.Contains(org, keyword) || strings.Contains(asn, keyword) {
			info.IsVPN = true
			if strings.Contains(org, "tor") || strings.Contains(asn, "tor") {
				info.IsTor = true
				info.ProxyType = model.ProxyTypeTor
			}
			break
		}
	}
}

// asnFallback reports whether the IP's autonomous system is on the static
// hosting list. Requires the geo resolver; without one there is no
// fallback evidence.
func (c *Classifier) asnFallback(ctx context.Context, ip string) bool {
	if c.geo == nil {
		return false
	}
	asn := c.geo.Lookup(ctx, ip).ASN
	if !strings.Contains(asn, "AS") {
		return false
	}
	fields := strings.Fields(strings.ReplaceAll(asn, "AS", ""))
	if len(fields) == 0 {
		return false
	}
	return hostingASNs[fields[0]]
}
