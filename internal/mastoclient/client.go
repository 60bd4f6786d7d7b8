package mastoclient

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-mastodon"

	"tootaction/internal/model"
)

// Session is an authenticated context against one instance.
type Session interface {
	CreateStatus(ctx context.Context, req model.PostRequest) (Status, error)
}

// Connector opens sessions. The publisher depends on it so tests can swap the network out.
type Connector interface {
	Login(ctx context.Context, p LoginParams) (Session, error)
}

// LoginParams describe how to reach and authenticate against an instance.
type LoginParams struct {
	URL         string
	AccessToken string
	Timeout     time.Duration
	UserAgent   string
	// DisableVersionCheck skips the instance probe so servers reporting
	// unfamiliar versions (forks, newer releases) are still usable.
	DisableVersionCheck bool
}

// Status is the subset of a created status we report.
type Status struct {
	ID  string
	URL string
}

// Client is a bearer-token client for the Mastodon REST API.
type Client struct {
	api *mastodon.Client
}

// Dialer is the production Connector.
type Dialer struct{}

func (Dialer) Login(ctx context.Context, p LoginParams) (Session, error) {
	c, err := Login(ctx, p)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Login builds an authenticated client for p.URL. Unless version checking is
// disabled it also fetches the instance info and rejects unrecognized versions.
func Login(ctx context.Context, p LoginParams) (*Client, error) {
	api := mastodon.NewClient(&mastodon.Config{
		Server:      strings.TrimRight(p.URL, "/"),
		AccessToken: p.AccessToken,
	})
	api.Timeout = p.Timeout
	if p.UserAgent != "" {
		api.UserAgent = p.UserAgent
	}
	c := &Client{api: api}
	if !p.DisableVersionCheck {
		if err := c.checkVersion(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CreateStatus posts req. There is no retry; any error is returned as is.
func (c *Client) CreateStatus(ctx context.Context, req model.PostRequest) (Status, error) {
	st, err := c.api.PostStatus(ctx, &mastodon.Toot{
		Status:      req.Message,
		Visibility:  req.Visibility.APIValue(),
		Sensitive:   req.Sensitive,
		SpoilerText: req.SpoilerText,
		Language:    req.Language,
	})
	if err != nil {
		return Status{}, fmt.Errorf("create status: %w", err)
	}
	return Status{ID: string(st.ID), URL: st.URL}, nil
}

// VersionError is returned by a strict login against an unrecognized server.
type VersionError struct{ Version string }

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported instance version %q", e.Version)
}

var versionRE = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

const (
	minMajor = 3
	maxMajor = 4
)

func (c *Client) checkVersion(ctx context.Context) error {
	inst, err := c.api.GetInstance(ctx)
	if err != nil {
		return fmt.Errorf("fetch instance: %w", err)
	}
	return checkVersion(inst.Version)
}

func checkVersion(v string) error {
	m := versionRE.FindStringSubmatch(v)
	if m == nil {
		return &VersionError{Version: v}
	}
	major, _ := strconv.Atoi(m[1])
	if major < minMajor || major > maxMajor {
		return &VersionError{Version: v}
	}
	return nil
}
