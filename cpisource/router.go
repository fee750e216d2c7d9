// Package cpisource routes CPI retrievals to the provider of each series.
package cpisource

import (
	"context"
	"strings"

	"github.com/etnz/realvalue"
)

// Router is a realvalue.CPISource that dispatches on the override prefix.
//
// An override starting with a registered prefix goes to its source, anything
// else, including no override at all, goes to Default.
type Router struct {
	Default  realvalue.CPISource
	prefixes []string
	sources  []realvalue.CPISource
}

// NewRouter returns a router sending everything to def.
func NewRouter(def realvalue.CPISource) *Router { return &Router{Default: def} }

// Handle sends overrides starting with prefix to src.
func (r *Router) Handle(prefix string, src realvalue.CPISource) *Router {
	r.prefixes = append(r.prefixes, prefix)
	r.sources = append(r.sources, src)
	return r
}

// CPI implements realvalue.CPISource.
func (r *Router) CPI(ctx context.Context, code, override string, from realvalue.Month) (*realvalue.Series, realvalue.CPIInfo, error) {
	return r.source(override).CPI(ctx, code, override, from)
}

func (r *Router) source(override string) realvalue.CPISource {
	for i, prefix := range r.prefixes {
		if override != "" && strings.HasPrefix(override, prefix) {
			return r.sources[i]
		}
	}
	return r.Default
}
