// Package resolve implements the provider cascade that turns one short-video
// link into a normalized media set.
package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/karrtopelka/drill-bot/key"
	"github.com/karrtopelka/drill-bot/log"
	"github.com/karrtopelka/drill-bot/media"
	"github.com/karrtopelka/drill-bot/provider"
	"github.com/spf13/viper"
)

// Attempt records one adapter invocation for diagnostics. Attempts live only
// for the duration of a single Resolve call.
type Attempt struct {
	Provider string
	Reason   string // empty on success
}

// Resolver tries adapters in a fixed priority order, stopping at the first
// usable result. It holds no cross-request state and is safe for concurrent
// use.
type Resolver struct {
	adapters []provider.Adapter
	timeout  time.Duration
}

// New builds a resolver over an explicit cascade.
func New(adapters []provider.Adapter, attemptTimeout time.Duration) *Resolver {
	return &Resolver{adapters: adapters, timeout: attemptTimeout}
}

// FromConfig assembles the resolver from the configured provider priority
// list and attempt timeout.
func FromConfig() (*Resolver, error) {
	chain, err := provider.Chain()
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(viper.GetInt(key.ResolveAttemptTimeout)) * time.Second
	return New(chain, timeout), nil
}

// Resolve runs the cascade for one link. The first adapter returning a set
// with at least one item wins; there is no merging or ranking across
// providers. Every failure reason is retained, and when the cascade is
// exhausted the returned set carries a joined summary of all of them
// instead of a silent empty success.
func (r *Resolver) Resolve(ctx context.Context, link string) *media.Set {
	attempts := make([]Attempt, 0, len(r.adapters))

	for _, a := range r.adapters {
		set, err := r.attempt(ctx, a, link)

		if err == nil && set.OK() {
			log.WithFields(map[string]any{
				"provider": a.Name(),
				"items":    len(set.Items),
				"link":     link,
			}).Info("link resolved")
			return set
		}

		reason := "empty result"
		if err != nil {
			reason = reasonOf(a.Name(), err)
		}
		attempts = append(attempts, Attempt{Provider: a.Name(), Reason: reason})
		log.WithField("link", link).Debugf("provider %s failed: %s", a.Name(), reason)
	}

	summary := summarize(attempts)
	log.WithField("link", link).Warnf("all providers exhausted: %s", summary)
	return media.Failed(link, summary)
}

// attempt invokes one adapter under its own timeout. A panicking adapter is
// converted into an ordinary failure so one crash can never abort the
// cascade.
func (r *Resolver) attempt(ctx context.Context, a provider.Adapter, link string) (set *media.Set, err error) {
	actx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return a.Resolve(actx, link)
}

// reasonOf renders an adapter error as a "provider: reason" string without
// doubling the prefix Failures already carry.
func reasonOf(name string, err error) string {
	msg := err.Error()
	if strings.HasPrefix(msg, name+":") {
		return msg
	}
	return name + ": " + msg
}

func summarize(attempts []Attempt) string {
	if len(attempts) == 0 {
		return "no providers configured"
	}
	reasons := make([]string, len(attempts))
	for i, a := range attempts {
		reasons[i] = a.Reason
	}
	return strings.Join(reasons, "; ")
}
