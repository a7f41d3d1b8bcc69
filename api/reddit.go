package api

import (
	"fmt"
	"strings"
)

const (
	KindListing = "Listing"
	KindLink    = "t3"
)

// Listing is returned by reddit api for /r/{subreddit}/{sort}.json.
type Listing struct {
	Kind string       `json:"kind"`
	Data *ListingData `json:"data"`
}

type ListingData struct {
	After    string  `json:"after"`
	Children []Thing `json:"children"`
}

// Thing is a single listing entry, only entries of kind "t3" are links.
type Thing struct {
	Kind string `json:"kind"`
	Data *Link  `json:"data"`
}

// Link is the part of a link post we care about.
// Most of the information is useless for our use case,
// that's why it's removed from the struct and is not deserialized.
type Link struct {
	URL        string  `json:"url"`
	Subreddit  string  `json:"subreddit"`
	Permalink  string  `json:"permalink"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Domain     string  `json:"domain"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

// IsListing reports whether the document is a listing with children.
func (l *Listing) IsListing() bool {
	return l != nil && l.Kind == KindListing && l.Data != nil && l.Data.Children != nil
}

// IsLink reports whether the entry is a link post with data.
func (t *Thing) IsLink() bool {
	return strings.ToLower(t.Kind) == KindLink && t.Data != nil
}

// FetchError is returned when a listing could not be fetched or decoded.
type FetchError struct {
	err       error
	subreddit string
	url       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching /r/%s from %s failed: %v", e.subreddit, e.url, e.err)
}

func (e *FetchError) Unwrap() error {
	return e.err
}

func (e *FetchError) Subreddit() string {
	return e.subreddit
}

func newFetchError(err error, subreddit, url string) *FetchError {
	return &FetchError{
		err:       err,
		subreddit: subreddit,
		url:       url,
	}
}
