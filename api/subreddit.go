package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type SubredditService struct {
	client *Client
}

// GetListing fetches a single listing, every failure is returned as *FetchError.
func (s *SubredditService) GetListing(ctx context.Context, opts ListingOptions) (*Listing, error) {
	surl := s.client.ListingURL(opts)

	res, err := s.client.GetURL(ctx, surl)
	if err != nil {
		return nil, newFetchError(err, opts.Subreddit, surl)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %s", ErrInvalidStatusCode, http.StatusText(res.StatusCode))
		return nil, newFetchError(err, opts.Subreddit, surl)
	}

	var l Listing
	if err := json.NewDecoder(res.Body).Decode(&l); err != nil {
		return nil, newFetchError(fmt.Errorf("%w: couldn't decode listing", err), opts.Subreddit, surl)
	}

	log.Debug().Str("subreddit", opts.Subreddit).Str("url", surl).Msg("fetched listing")

	return &l, nil
}

// GetListings fetches the listings of every subreddit concurrently.
// The result has the same order as subreddits, the first failure cancels the others.
func (s *SubredditService) GetListings(ctx context.Context, sorting, timeframe string, subreddits ...string) ([]*Listing, error) {
	listings := make([]*Listing, len(subreddits))

	g, ctx := errgroup.WithContext(ctx)
	for i, sub := range subreddits {
		i, sub := i, sub
		g.Go(func() error {
			l, err := s.GetListing(ctx, ListingOptions{
				Subreddit: sub,
				Sorting:   sorting,
				Timeframe: timeframe,
			})
			if err != nil {
				return err
			}
			listings[i] = l
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return listings, nil
}
