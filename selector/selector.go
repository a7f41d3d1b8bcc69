// Package selector picks the wallpaper out of the filtered candidates.
package selector

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/handsomefox/redditwall/config"
	"github.com/handsomefox/redditwall/link"
)

// ExistsFunc reports whether the candidate was already downloaded.
type ExistsFunc func(link.Candidate) (bool, error)

// Select returns the candidate with the highest score.
// In shuffle mode, candidates that were already downloaded are skipped first.
// ok is false when there is nothing to pick.
func Select(ctx context.Context, cfg *config.Config, cs []link.Candidate, exists ExistsFunc) (c link.Candidate, ok bool) {
	if cfg.Shuffle && exists != nil {
		cs = NotDownloaded(ctx, cs, exists)
	}
	return MaxScore(cs)
}

// MaxScore returns the first candidate with the strictly highest positive score.
func MaxScore(cs []link.Candidate) (best link.Candidate, ok bool) {
	top := 0
	for _, c := range cs {
		if c.Score > top {
			best, top, ok = c, c.Score, true
		}
	}
	return best, ok
}

// NotDownloaded concurrently checks every candidate and keeps the ones that do not exist yet.
// A failed check counts as "does not exist". The order of the candidates is kept.
func NotDownloaded(ctx context.Context, cs []link.Candidate, exists ExistsFunc) []link.Candidate {
	found := make([]bool, len(cs))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range cs {
		i, c := i, c
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			ok, err := exists(c)
			if err != nil {
				log.Debug().Err(err).Str("url", c.URL).Msg("couldn't check if the candidate exists")
				return nil
			}
			found[i] = ok
			return nil
		})
	}
	_ = g.Wait() // the checks never fail

	left := make([]link.Candidate, 0, len(cs))
	for i, c := range cs {
		if found[i] {
			log.Debug().Str("url", c.URL).Msg("skipped an already downloaded candidate")
			continue
		}
		left = append(left, c)
	}
	return left
}
