package mastoclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tootaction/internal/model"
)

type fakeInstance struct {
	version  string
	status   int
	instance atomic.Int32
	posts    atomic.Int32
	form     chan map[string]string
}

func newFakeInstance(t *testing.T, version string, status int) (*fakeInstance, *httptest.Server) {
	f := &fakeInstance{version: version, status: status, form: make(chan map[string]string, 1)}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/instance":
			f.instance.Add(1)
			_, _ = w.Write([]byte(`{"uri":"example.social","title":"example","version":"` + f.version + `"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/statuses":
			f.posts.Add(1)
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"The access token is invalid"}`))
				return
			}
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			f.form <- map[string]string{
				"status":       r.PostForm.Get("status"),
				"visibility":   r.PostForm.Get("visibility"),
				"sensitive":    r.PostForm.Get("sensitive"),
				"spoiler_text": r.PostForm.Get("spoiler_text"),
				"language":     r.PostForm.Get("language"),
				"user_agent":   r.UserAgent(),
			}
			w.WriteHeader(f.status)
			if f.status != http.StatusOK {
				_, _ = w.Write([]byte(`{"error":"Validation failed: Text can't be blank"}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"1","url":"https://example.social/@user/1","created_at":"2025-01-01T00:00:00.000Z","visibility":"public","content":"<p>hello</p>"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return f, ts
}

func TestLoginAndCreateStatus(t *testing.T) {
	f, ts := newFakeInstance(t, "4.2.1", http.StatusOK)
	c, err := Login(context.Background(), LoginParams{
		URL:                 ts.URL + "/",
		AccessToken:         "tok",
		Timeout:             5 * time.Second,
		UserAgent:           "tootaction-test",
		DisableVersionCheck: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	st, err := c.CreateStatus(context.Background(), model.PostRequest{
		Message:     "hello",
		Visibility:  model.VisibilityFollowersOnly,
		Sensitive:   true,
		SpoilerText: "cw",
		Language:    "de",
	})
	if err != nil {
		t.Fatal(err)
	}
	if st.URL != "https://example.social/@user/1" || st.ID != "1" {
		t.Fatalf("unexpected status: %+v", st)
	}
	form := <-f.form
	if form["status"] != "hello" || form["visibility"] != "private" {
		t.Fatalf("unexpected form: %v", form)
	}
	if form["sensitive"] != "true" || form["spoiler_text"] != "cw" {
		t.Fatalf("content warning not sent: %v", form)
	}
	if form["language"] != "de" {
		t.Fatalf("language not sent: %v", form)
	}
	if form["user_agent"] != "tootaction-test" {
		t.Fatalf("user agent not sent: %v", form)
	}
	if f.instance.Load() != 0 {
		t.Fatalf("disabled version check must not probe the instance")
	}
}

func TestCreateStatusRejected(t *testing.T) {
	_, ts := newFakeInstance(t, "4.2.1", http.StatusUnprocessableEntity)
	c, err := Login(context.Background(), LoginParams{URL: ts.URL, AccessToken: "tok", Timeout: time.Second, DisableVersionCheck: true})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.CreateStatus(context.Background(), model.PostRequest{Message: "hello", Visibility: model.VisibilityPublic})
	if err == nil {
		t.Fatal("expected error from rejected request")
	}
	if !strings.Contains(err.Error(), "create status") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateStatusUnauthorized(t *testing.T) {
	f, ts := newFakeInstance(t, "4.2.1", http.StatusOK)
	c, err := Login(context.Background(), LoginParams{URL: ts.URL, AccessToken: "wrong", Timeout: time.Second, DisableVersionCheck: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateStatus(context.Background(), model.PostRequest{Message: "hello", Visibility: model.VisibilityPublic}); err == nil {
		t.Fatal("expected auth failure")
	}
	if f.posts.Load() != 1 {
		t.Fatalf("expected exactly one attempt, got %d", f.posts.Load())
	}
}

func TestStrictLogin(t *testing.T) {
	cases := []struct {
		version string
		wantErr bool
	}{
		{"4.2.1", false},
		{"3.5.19", false},
		{"4.3.0+glitch", true},
		{"2.7.2 (compatible; Pleroma 2.5.0)", true},
		{"5.0.0", true},
	}
	for _, tc := range cases {
		t.Run(tc.version, func(t *testing.T) {
			f, ts := newFakeInstance(t, tc.version, http.StatusOK)
			_, err := Login(context.Background(), LoginParams{URL: ts.URL, AccessToken: "tok", Timeout: time.Second})
			if f.instance.Load() != 1 {
				t.Fatalf("strict login should probe the instance once")
			}
			if (err != nil) != tc.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tc.wantErr)
			}
			var verr *VersionError
			if tc.wantErr && !errors.As(err, &verr) {
				t.Fatalf("expected VersionError, got %T", err)
			}
		})
	}
}

func TestDialerReturnsSession(t *testing.T) {
	var conn Connector = Dialer{}
	s, err := conn.Login(context.Background(), LoginParams{URL: "https://example.social", AccessToken: "tok", DisableVersionCheck: true})
	if err != nil || s == nil {
		t.Fatalf("got %v %v", s, err)
	}
}
