package model

import (
	"fmt"
	"strings"
	"time"
)

// Visibility is the audience scope of a status.
type Visibility string

const (
	VisibilityDirect        Visibility = "direct"
	VisibilityPublic        Visibility = "public"
	VisibilityUnlisted      Visibility = "unlisted"
	VisibilityFollowersOnly Visibility = "followers_only"
)

// AllowedVisibilities lists the accepted input values in display order.
var AllowedVisibilities = []Visibility{
	VisibilityDirect,
	VisibilityPublic,
	VisibilityUnlisted,
	VisibilityFollowersOnly,
}

// ParseVisibility maps an input value to a Visibility. "private" is accepted
// as the Mastodon API spelling of followers_only.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(s); v {
	case VisibilityDirect, VisibilityPublic, VisibilityUnlisted, VisibilityFollowersOnly:
		return v, nil
	case "private":
		return VisibilityFollowersOnly, nil
	}
	return "", fmt.Errorf("visibility must be one of the following values: %s", AllowedVisibilityList())
}

// AllowedVisibilityList returns the accepted values joined for messages.
func AllowedVisibilityList() string {
	names := make([]string, 0, len(AllowedVisibilities))
	for _, v := range AllowedVisibilities {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

// APIValue returns the value the statuses endpoint expects.
func (v Visibility) APIValue() string {
	if v == VisibilityFollowersOnly {
		return "private"
	}
	return string(v)
}

// PostRequest is a validated status ready to be sent.
type PostRequest struct {
	Message     string
	Visibility  Visibility
	Sensitive   bool
	SpoilerText string
	Language    string
}

// PostResult describes a created status.
type PostResult struct {
	ID          string
	URL         string
	PublishedAt time.Time // local clock at call completion
}

// TimestampLayout renders PublishedAt for the ts output, e.g. "14:39:07 GMT+0200 (CEST)".
const TimestampLayout = "15:04:05 GMT-0700 (MST)"

// Timestamp formats PublishedAt with TimestampLayout.
func (r PostResult) Timestamp() string {
	return r.PublishedAt.Format(TimestampLayout)
}
