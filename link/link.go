// Package link turns reddit listings into wallpaper candidates.
package link

import (
	"fmt"
	"strings"
	"time"

	"github.com/handsomefox/redditwall/api"
)

// Resolution is a width and height pair in pixels.
type Resolution struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Candidate is a link post in a uniform format.
// It is built once from an api.Link and never changed afterwards.
type Candidate struct {
	URL        string
	Subreddit  string
	Permalink  string
	Title      string
	Author     string
	Domain     string
	Type       string
	Score      int
	CreatedUTC int64
	Resolution *Resolution
}

// Created returns the creation time of the post.
func (c Candidate) Created() time.Time {
	return time.Unix(c.CreatedUTC, 0)
}

// FromLink builds a Candidate from the link data.
func FromLink(l *api.Link) Candidate {
	return Candidate{
		URL:        l.URL,
		Subreddit:  l.Subreddit,
		Permalink:  l.Permalink,
		Title:      l.Title,
		Author:     l.Author,
		Domain:     strings.ToLower(l.Domain),
		Type:       ParseType(l.URL),
		Score:      l.Score,
		CreatedUTC: int64(l.CreatedUTC),
		Resolution: ParseResolution(l.Title),
	}
}

// Normalize flattens the listings into candidates.
// Documents that are not listings and entries that are not links are skipped.
func Normalize(listings ...*api.Listing) []Candidate {
	var cs []Candidate
	for _, l := range listings {
		if !l.IsListing() {
			continue
		}
		for i := range l.Data.Children {
			child := &l.Data.Children[i]
			if !child.IsLink() {
				continue
			}
			cs = append(cs, FromLink(child.Data))
		}
	}
	return cs
}
