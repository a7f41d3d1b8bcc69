// Package filter is a package that is used to implement functions
// that act upon wallpaper candidates and can filter out
// things that user does not want as a wallpaper
// depending on the configuration (like score or resolution)
package filter

import (
	"slices"

	"github.com/handsomefox/redditwall/config"
	"github.com/handsomefox/redditwall/link"
)

// Default returns a slice of the filters included in this package.
func Default() []Filter {
	return []Filter{
		Score(),
		Domains(),
		Types(),
		Resolution(),
	}
}

// IsFiltered returns a boolean that indicates whether applying filters to the given candidate
// indicate that the candidate is unwanted.
func IsFiltered(cfg *config.Config, c link.Candidate, filters ...Filter) bool {
	for _, f := range filters {
		if filtered := f.Filters(c, cfg); filtered {
			return true
		}
	}
	return false
}

// Accept reports whether the candidate passes every default filter.
func Accept(cfg *config.Config, c link.Candidate) bool {
	return !IsFiltered(cfg, c, Default()...)
}

// Apply returns the candidates that pass the filters, keeping their order.
func Apply(cfg *config.Config, cs []link.Candidate, filters ...Filter) []link.Candidate {
	accepted := make([]link.Candidate, 0, len(cs))
	for _, c := range cs {
		if IsFiltered(cfg, c, filters...) {
			continue
		}
		accepted = append(accepted, c)
	}
	return accepted
}

// Filter is an interface that filters the given candidate and returns the result of filtering (true/false).
type Filter interface {
	// Filters returns whether the candidate should be filtered out.
	Filters(link.Candidate, *config.Config) bool
}

// DeciderFunc implements filter interface and expects the function to return a boolean.
type DeciderFunc func(link.Candidate, *config.Config) bool

func (fn DeciderFunc) Filters(c link.Candidate, cfg *config.Config) bool {
	return fn(c, cfg)
}

// Score filters out candidates below the minimal score, candidates without a score pass.
func Score() DeciderFunc {
	return func(c link.Candidate, cfg *config.Config) bool {
		if c.Score == 0 || c.Score >= cfg.MinScore {
			return false
		}
		return true
	}
}

// Domains filters out candidates hosted outside of the allowed domains.
func Domains() DeciderFunc {
	return func(c link.Candidate, cfg *config.Config) bool {
		if len(cfg.Domains) == 0 {
			return false
		}
		return !slices.Contains(cfg.Domains, c.Domain)
	}
}

// Types filters out candidates with a file extension that is not allowed.
func Types() DeciderFunc {
	return func(c link.Candidate, cfg *config.Config) bool {
		if len(cfg.Types) == 0 {
			return false
		}
		return !slices.Contains(cfg.Types, c.Type)
	}
}

// Resolution filters out candidates smaller than the minimal resolution,
// or without a resolution tag when a minimum is set.
func Resolution() DeciderFunc {
	return func(c link.Candidate, cfg *config.Config) bool {
		want := cfg.MinResolution
		if want == nil {
			return false
		}
		if c.Resolution == nil {
			return true
		}
		if c.Resolution.Width >= want.Width && c.Resolution.Height >= want.Height {
			return false
		}
		return true
	}
}
