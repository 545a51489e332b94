package siglookup

import (
	"context"

	"go.uber.org/zap"

	"github.com/hexscope/contract-recon/internal/metrics"
	"github.com/hexscope/contract-recon/internal/recon"
)

// Resolver chains a primary and a fallback directory behind one run's memo
// cache. Build a fresh Resolver per analysis run; the cache must not
// outlive the run.
type Resolver struct {
	lggr     *zap.SugaredLogger
	services []service
	cache    map[recon.Selector]string
}

type service struct {
	name   string
	client *Client
}

func NewResolver(lggr *zap.SugaredLogger, primary, fallback *Client) *Resolver {
	r := &Resolver{lggr: lggr, cache: make(map[recon.Selector]string)}
	if primary != nil {
		r.services = append(r.services, service{name: "primary", client: primary})
	}
	if fallback != nil {
		r.services = append(r.services, service{name: "fallback", client: fallback})
	}
	return r
}

// Resolve returns the best-known signature for sel, or "" when neither
// directory knows it. Negative answers memoize too, so a selector is
// looked up at most once per run.
func (r *Resolver) Resolve(ctx context.Context, sel recon.Selector) string {
	if sig, seen := r.cache[sel]; seen {
		return sig
	}
	sig := r.lookup(ctx, sel.Hex())
	r.cache[sel] = sig
	return sig
}

func (r *Resolver) lookup(ctx context.Context, selector string) string {
	for _, svc := range r.services {
		sig, ok := svc.client.Lookup(ctx, selector)
		if ok {
			metrics.SigLookupsTotal.WithLabelValues(svc.name, "hit").Inc()
			return sig
		}
		metrics.SigLookupsTotal.WithLabelValues(svc.name, "miss").Inc()
	}
	r.lggr.Debugf("siglookup: no signature for %s", selector)
	return ""
}
