// Package fetch turns resolved media URLs into byte buffers.
//
// Origin servers behind the short-video platform are capricious: direct
// requests without browser headers are rejected, and some CDN nodes refuse
// whole IP ranges. The fetcher therefore escalates through a ranked list of
// strategies (direct browser-like fetch, a generic read-through proxy, then
// a platform-specialized proxy list) instead of duplicating retry logic per
// call site.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/karrtopelka/drill-bot/constant"
	"github.com/karrtopelka/drill-bot/key"
	"github.com/karrtopelka/drill-bot/log"
	"github.com/karrtopelka/drill-bot/network"
	"github.com/spf13/viper"
)

// Strategy names the escalation tier that produced a buffer.
type Strategy string

const (
	StrategyDirect       Strategy = "direct"
	StrategyGenericProxy Strategy = "generic-proxy"
	StrategySpecialProxy Strategy = "special-proxy"
)

// placeholder substituted with the percent-encoded target in proxy templates.
const placeholder = "{URL}"

const attemptTimeout = 20 * time.Second

// Result is a fetched buffer plus the strategy that produced it; the
// strategy exists for logging only.
type Result struct {
	Data     []byte
	Strategy Strategy
}

// Failed reports that every configured attempt for one URL was exhausted.
// It carries the last underlying error, which callers must treat as a hard
// failure for that media item.
type Failed struct {
	URL      string
	Attempts int
	Last     error
}

func (f *Failed) Error() string {
	return fmt.Sprintf("fetch failed after %d attempts: %v", f.Attempts, f.Last)
}

func (f *Failed) Unwrap() error { return f.Last }

// Fetcher implements the retry/proxy escalation. It is stateless between
// calls and safe for concurrent use.
type Fetcher struct {
	client         *http.Client
	browser        func(ctx context.Context, url string, headers map[string]string) ([]byte, int, error)
	maxAttempts    int
	baseDelay      time.Duration
	proxyTemplate  string
	specialProxies []string
	cdnHosts       []string
}

// New builds a fetcher with an explicit escalation configuration.
func New(maxAttempts int, baseDelay time.Duration, proxyTemplate string, specialProxies, cdnHosts []string) *Fetcher {
	return &Fetcher{
		client:         network.Client,
		browser:        network.BrowserGet,
		maxAttempts:    maxAttempts,
		baseDelay:      baseDelay,
		proxyTemplate:  proxyTemplate,
		specialProxies: specialProxies,
		cdnHosts:       cdnHosts,
	}
}

// FromConfig assembles the fetcher from the global configuration.
func FromConfig() *Fetcher {
	return New(
		viper.GetInt(key.FetchMaxAttempts),
		time.Duration(viper.GetInt(key.FetchBaseDelay))*time.Second,
		viper.GetString(key.FetchProxyTemplate),
		viper.GetStringSlice(key.FetchTikTokProxies),
		viper.GetStringSlice(key.FetchTikTokCDNHosts),
	)
}

// Fetch retrieves one URL, escalating per attempt: 0 direct with browser
// headers, 1 through the generic proxy, 2+ through the specialized proxy
// list (only for known CDN hosts). Linear backoff between attempts; each
// attempt runs under its own timeout and its failure never cancels the next
// one. Exhaustion returns *Failed wrapping the last underlying error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 && f.baseDelay > 0 {
			if err := backoff(ctx, f.baseDelay*time.Duration(attempt)); err != nil {
				if lastErr == nil {
					lastErr = err
				}
				return nil, &Failed{URL: rawURL, Attempts: attempts, Last: lastErr}
			}
		}

		strategy, target, ok := f.plan(attempt, rawURL)
		if !ok {
			break
		}
		attempts++

		data, err := f.attempt(ctx, strategy, target, rawURL)
		if err == nil {
			log.WithFields(map[string]any{
				"strategy": string(strategy),
				"bytes":    len(data),
			}).Debug("media fetched")
			return &Result{Data: data, Strategy: strategy}, nil
		}

		lastErr = err
		log.Debugf("fetch attempt %d (%s) failed: %v", attempt, strategy, err)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no applicable fetch strategy for %s", rawURL)
	}
	return nil, &Failed{URL: rawURL, Attempts: attempts, Last: lastErr}
}

// backoff waits out one linear backoff step, aborting early when the
// caller's context is cancelled.
func backoff(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// plan maps an attempt index onto a strategy and concrete target URL.
func (f *Fetcher) plan(attempt int, rawURL string) (Strategy, string, bool) {
	switch {
	case attempt == 0:
		return StrategyDirect, rawURL, true
	case attempt == 1:
		if f.proxyTemplate == "" {
			return "", "", false
		}
		return StrategyGenericProxy, expand(f.proxyTemplate, rawURL), true
	default:
		if !f.isCDNHost(rawURL) {
			return "", "", false
		}
		idx := attempt - 2
		if idx >= len(f.specialProxies) {
			return "", "", false
		}
		return StrategySpecialProxy, expand(f.specialProxies[idx], rawURL), true
	}
}

// attempt executes one bounded fetch. Its timeout cancels only this attempt.
func (f *Fetcher) attempt(ctx context.Context, strategy Strategy, target, rawURL string) ([]byte, error) {
	actx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	if strategy == StrategyDirect {
		body, status, err := f.browser(actx, target, map[string]string{
			"Accept":  "*/*",
			"Referer": constant.TikTokOrigin,
			"Origin":  strings.TrimSuffix(constant.TikTokOrigin, "/"),
		})
		if err != nil {
			return nil, err
		}
		if status < 200 || status >= 300 {
			return nil, fmt.Errorf("direct fetch status %d", status)
		}
		return body, nil
	}

	req, err := http.NewRequestWithContext(actx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("proxy fetch status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// expand substitutes the percent-encoded target into a proxy template.
func expand(template, rawURL string) string {
	return strings.ReplaceAll(template, placeholder, url.QueryEscape(rawURL))
}

// isCDNHost reports whether a URL points at a known platform media CDN.
func (f *Fetcher) isCDNHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, suffix := range f.cdnHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
