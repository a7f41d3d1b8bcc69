// package api contains the code required to fetch subreddit listings and files from reddit.
// This package is heavily inspired by https://github.com/vartanbeno/go-reddit/, you should check it out.
// But, this package is simpler, smaller and more specialized to the use-case required by me.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

const (
	clientTimeout  = time.Minute
	defaultBaseURL = "https://reddit.com"
	userAgent      = "go:getter"

	// one request every 200ms is enough to not get ratelimited
	defaultRateInterval = 200 * time.Millisecond
	defaultRateBurst    = 4
)

var (
	ErrCreateRequest     = errors.New("error creating a request")
	ErrInvalidStatusCode = errors.New("invalid status code")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is used to make requests to reddit and to download the linked files.
type Client struct {
	Subreddit *SubredditService

	client  *http.Client
	limiter *rate.Limiter

	base *url.URL
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.client.Timeout = timeout
	return c
}

func (c *Client) WithBaseURL(u *url.URL) *Client {
	c.base = u
	return c
}

// WithLimiter replaces the request limiter, nil disables limiting.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// ListingOptions describe a single listing request.
type ListingOptions struct {
	Subreddit string
	Sorting   string
	Timeframe string
}

// GetURL performs a GET request to the given url, the caller has to close the body.
func (c *Client) GetURL(ctx context.Context, surl string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, surl, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateRequest, err)
	}
	req.Header.Add("User-Agent", userAgent)

	return c.client.Do(req)
}

// GetFile returns the data of the file at the given url.
func (c *Client) GetFile(ctx context.Context, surl string) ([]byte, error) {
	res, err := c.GetURL(ctx, surl)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatusCode, http.StatusText(res.StatusCode))
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't read response body", err)
	}

	return b, nil
}

// ListingURL formats the listing url, it looks like
//
//	https://reddit.com/r/{subreddit}/{sort}.json?t={from}
func (c *Client) ListingURL(opts ListingOptions) string {
	u := c.base.
		JoinPath("r").
		JoinPath(opts.Subreddit).
		JoinPath(opts.Sorting + ".json")

	values := u.Query()
	values.Set("t", opts.Timeframe)
	u.RawQuery = values.Encode()

	return u.String()
}

func (c *Client) BaseURL() *url.URL {
	return c.base
}

func DefaultClient() *Client {
	baseURL, _ := url.Parse(defaultBaseURL)
	c := &Client{
		client: &http.Client{
			Transport: &http.Transport{
				TLSNextProto: map[string]func(authority string, c *tls.Conn) http.RoundTripper{},
			},
			Timeout: clientTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(defaultRateInterval), defaultRateBurst),
		base:    baseURL,
	}
	c.Subreddit = &SubredditService{
		client: c,
	}
	return c
}
