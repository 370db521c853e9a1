// Package provider manages the extraction backends that turn a short-video
// link into a normalized media set.
//
// Each backend speaks its own response schema, so each gets its own adapter
// with a single normalization path; dispatch happens by provider identity,
// never by sniffing the response shape.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/karrtopelka/drill-bot/key"
	"github.com/karrtopelka/drill-bot/media"
	"github.com/spf13/viper"
)

// UnknownTitle is the placeholder used when a backend reports neither a
// title nor a description.
const UnknownTitle = "Unknown Title"

// Adapter wraps one upstream extraction backend.
type Adapter interface {
	// Name returns the unique identifier for the backend.
	Name() string

	// Resolve normalizes the backend's response for one link into a media set.
	// Expected failure modes (bad status, malformed payload, empty result)
	// are reported as *Failure, never panicked.
	Resolve(ctx context.Context, link string) (*media.Set, error)
}

// Failure reports an expected, recoverable extraction failure. The
// orchestrator records it and moves on to the next backend.
type Failure struct {
	Provider string
	Reason   string
}

func (f *Failure) Error() string {
	return f.Provider + ": " + f.Reason
}

// Failf constructs a Failure with a formatted reason.
func Failf(provider, format string, args ...any) *Failure {
	return &Failure{Provider: provider, Reason: fmt.Sprintf(format, args...)}
}

// All returns every built-in adapter in canonical order.
func All() []Adapter {
	return []Adapter{NewTikwm(), NewTiklydown(), NewTikdown(), NewScrape()}
}

// Get finds an adapter by name.
func Get(name string) (Adapter, bool) {
	for _, a := range All() {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Chain assembles the cascade from the configured priority list. An unknown
// name is a hard configuration error; the closest known name is suggested.
func Chain() ([]Adapter, error) {
	names := viper.GetStringSlice(key.ResolveProviders)
	if len(names) == 0 {
		return All(), nil
	}

	chain := make([]Adapter, 0, len(names))
	for _, name := range names {
		a, ok := Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q (did you mean %q?)", name, closest(name))
		}
		chain = append(chain, a)
	}
	return chain, nil
}

// closest returns the known adapter name with the smallest edit distance.
func closest(name string) string {
	best, bestDist := "", -1
	for _, a := range All() {
		if d := levenshtein.Distance(name, a.Name()); bestDist < 0 || d < bestDist {
			best, bestDist = a.Name(), d
		}
	}
	return best
}

// fetchJSON performs a GET against a backend endpoint and decodes the typed
// response, translating transport and payload problems into Failures.
func fetchJSON(ctx context.Context, client *http.Client, provider, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Failf(provider, "create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Failf(provider, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Failf(provider, "unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return Failf(provider, "read response: %v", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return Failf(provider, "malformed payload: %v", err)
	}
	return nil
}

// firstNonEmpty returns the first non-empty string among candidates.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
