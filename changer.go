package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/handsomefox/redditwall/api"
	"github.com/handsomefox/redditwall/config"
	"github.com/handsomefox/redditwall/desktop"
	"github.com/handsomefox/redditwall/files"
	"github.com/handsomefox/redditwall/filter"
	"github.com/handsomefox/redditwall/link"
	"github.com/handsomefox/redditwall/selector"
)

var ErrNoCandidate = errors.New("no wallpaper left after filtering")

type ListingFetcher interface {
	GetListings(ctx context.Context, sorting, timeframe string, subreddits ...string) ([]*api.Listing, error)
}

type ImageStore interface {
	Downloaded(c link.Candidate) (bool, error)
	Download(ctx context.Context, url string) (string, error)
}

type WallpaperSetter interface {
	Set(ctx context.Context, path string) error
}

type Notifier interface {
	Notify(ctx context.Context, n desktop.Notification) error
}

// Result is the outcome of a successful run.
type Result struct {
	Winner link.Candidate
	Path   string
}

// Changer fetches the configured subreddits and changes the wallpaper to the best post.
type Changer struct {
	cfg *config.Config

	listings ListingFetcher
	store    ImageStore
	setter   WallpaperSetter
	notifier Notifier
	filters  []filter.Filter

	now func() time.Time
}

func NewChanger(cfg *config.Config) *Changer {
	client := api.DefaultClient()
	return &Changer{
		cfg:      cfg,
		listings: client.Subreddit,
		store:    files.NewStore(client, afero.NewOsFs(), cfg.Directory),
		setter:   desktop.NewSetter(),
		notifier: desktop.NewNotifier(),
		filters:  filter.Default(),
		now:      time.Now,
	}
}

func (c *Changer) WithListings(l ListingFetcher) *Changer {
	c.listings = l
	return c
}

func (c *Changer) WithStore(s ImageStore) *Changer {
	c.store = s
	return c
}

func (c *Changer) WithSetter(s WallpaperSetter) *Changer {
	c.setter = s
	return c
}

func (c *Changer) WithNotifier(n Notifier) *Changer {
	c.notifier = n
	return c
}

func (c *Changer) WithClock(now func() time.Time) *Changer {
	c.now = now
	return c
}

// Run performs a single wallpaper change.
// ErrNoCandidate is returned when nothing survived filtering, nothing is downloaded in that case.
// A failed notification is only logged.
func (c *Changer) Run(ctx context.Context) (*Result, error) {
	logger := log.With().Str("run_id", uuid.NewString()).Logger()

	listings, err := c.listings.GetListings(ctx, c.cfg.Sort, c.cfg.From, c.cfg.Subreddits...)
	if err != nil {
		return nil, err
	}

	candidates := link.Normalize(listings...)
	accepted := filter.Apply(c.cfg, candidates, c.filters...)
	logger.Debug().
		Int("listings", len(listings)).
		Int("candidates", len(candidates)).
		Int("accepted", len(accepted)).
		Msg("filtered candidates")

	winner, ok := selector.Select(ctx, c.cfg, accepted, c.store.Downloaded)
	if !ok {
		return nil, ErrNoCandidate
	}
	logger.Info().
		Str("subreddit", winner.Subreddit).
		Int("score", winner.Score).
		Str("url", winner.URL).
		Msg("selected wallpaper")

	path, err := c.store.Download(ctx, winner.URL)
	if err != nil {
		return nil, err
	}

	if err := c.setter.Set(ctx, path); err != nil {
		return nil, err
	}
	logger.Info().Str("path", path).Msg("changed wallpaper")

	if err := c.notifier.Notify(ctx, desktop.NotificationFor(winner, path, c.now())); err != nil {
		logger.Warn().Err(err).Msg("failed to show the notification")
	}

	return &Result{Winner: winner, Path: path}, nil
}
