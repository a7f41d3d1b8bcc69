package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/handsomefox/redditwall/config"
	"github.com/handsomefox/redditwall/logging"
)

type AppArguments struct {
	Config   string        `arg:"-c,--config,env:REDDIT_WALLPAPER_CONFIG" help:"path to the configuration file" placeholder:"PATH"`
	Verbose  bool          `arg:"-v,--verbose" help:"enable debug logging"`
	Interval time.Duration `arg:"-i,--interval" help:"change the wallpaper periodically (e.g. 30m), runs once when unset"`
}

func (AppArguments) Description() string {
	return "Sets the best image from a list of subreddits as the desktop wallpaper."
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	var args AppArguments
	p := arg.MustParse(&args)

	if args.Interval < 0 {
		p.Fail("the interval can not be negative")
	}

	logging.Setup(os.Stderr, args.Verbose)

	if args.Config == "" {
		args.Config = config.DefaultPath()
	}

	log.Debug().Any("app_arguments", args).Send()

	cfg, err := config.Load(args.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't load the configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changer := NewChanger(cfg)

	if args.Interval == 0 {
		if err := run(ctx, changer); err != nil {
			stop()
			log.Fatal().Err(err).Msg("error running the app")
		}
		return
	}

	loop(ctx, changer, args.Interval)
}

// run changes the wallpaper once, an empty selection is not an error.
func run(ctx context.Context, changer *Changer) error {
	res, err := changer.Run(ctx)
	if errors.Is(err, ErrNoCandidate) {
		log.Info().Msg("no wallpaper matched the configuration")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().
		Str("title", res.Winner.Title).
		Str("path", res.Path).
		Msg("done")
	return nil
}

// loop changes the wallpaper every interval until ctx is canceled.
func loop(ctx context.Context, changer *Changer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := run(ctx, changer); err != nil && ctx.Err() == nil {
			log.Err(err).Msg("failed to change the wallpaper")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("stopping")
			return
		case <-ticker.C:
		}
	}
}
