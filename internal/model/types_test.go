package model

import (
	"strings"
	"testing"
	"time"
)

func TestParseVisibility(t *testing.T) {
	for _, in := range []string{"direct", "public", "unlisted", "followers_only"} {
		v, err := ParseVisibility(in)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", in, err)
		}
		if string(v) != in {
			t.Fatalf("%s: got %s", in, v)
		}
	}
	v, err := ParseVisibility("private")
	if err != nil || v != VisibilityFollowersOnly {
		t.Fatalf("private should map to followers_only, got %v %v", v, err)
	}
}

func TestParseVisibilityRejectsUnknown(t *testing.T) {
	_, err := ParseVisibility("invalid")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "visibility must be one of") {
		t.Fatalf("unexpected message %q", err)
	}
	for _, want := range []string{"direct", "public", "unlisted", "followers_only"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should list %s", err, want)
		}
	}
}

func TestAPIValue(t *testing.T) {
	if VisibilityFollowersOnly.APIValue() != "private" {
		t.Fatalf("followers_only must be sent as private")
	}
	if VisibilityPublic.APIValue() != "public" {
		t.Fatalf("public must be sent unchanged")
	}
}

func TestTimestamp(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	r := PostResult{PublishedAt: time.Date(2025, 6, 1, 14, 39, 7, 0, loc)}
	if got := r.Timestamp(); got != "14:39:07 GMT+0200 (CEST)" {
		t.Fatalf("got %q", got)
	}
}
