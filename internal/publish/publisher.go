package publish

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tootaction/internal/action"
	"tootaction/internal/config"
	"tootaction/internal/logging"
	"tootaction/internal/mastoclient"
	"tootaction/internal/metrics"
	"tootaction/internal/model"
	"tootaction/internal/util"
)

// Input names read by the publisher.
const (
	InputMessage     = "message"
	InputVisibility  = "visibility"
	InputSensitive   = "sensitive"
	InputSpoilerText = "spoiler_text"
	InputLanguage    = "language"
)

// Output names set after a successful post.
const (
	OutputTimestamp = "ts"
	OutputURL       = "url"
	OutputID        = "id"
)

// Publisher posts one status per run.
type Publisher struct {
	Connector mastoclient.Connector
	Now       func() time.Time
}

func New(conn mastoclient.Connector) *Publisher {
	return &Publisher{Connector: conn, Now: time.Now}
}

// Prepare checks the configuration and inputs in order and builds the request.
// It stops at the first failure and makes no network calls.
func (p *Publisher) Prepare(cfg *config.Config, in action.Inputs) (model.PostRequest, error) {
	var req model.PostRequest
	if err := cfg.Validate(); err != nil {
		return req, fail(KindConfig, err)
	}

	msg, err := in.Required(InputMessage)
	if err != nil {
		return req, fail(KindInput, err)
	}
	if msg == "" {
		return req, fail(KindInput, errors.New("need to provide content to be published"))
	}

	vis := in.Optional(InputVisibility)
	if vis == "" {
		vis = cfg.Post.DefaultVisibility
	}
	if vis == "" {
		vis = string(model.VisibilityPublic)
	}
	v, err := model.ParseVisibility(vis)
	if err != nil {
		return req, fail(KindInput, err)
	}

	if n := util.CharCount(msg); cfg.Post.MaxChars > 0 && n > cfg.Post.MaxChars {
		if cfg.Post.Overflow == config.OverflowReject {
			return req, fail(KindInput, fmt.Errorf("message is %d characters, the limit is %d", n, cfg.Post.MaxChars))
		}
		msg = util.Truncate(msg, cfg.Post.MaxChars, cfg.Post.Ellipsis)
		metrics.Truncated.Inc()
		logging.Debug("message_truncated", map[string]any{"chars": n, "limit": cfg.Post.MaxChars})
	}

	var sensitive bool
	if s := in.Optional(InputSensitive); s != "" {
		sensitive, err = strconv.ParseBool(s)
		if err != nil {
			return req, fail(KindInput, fmt.Errorf("sensitive must be true or false, got %q", s))
		}
	}

	return model.PostRequest{
		Message:     msg,
		Visibility:  v,
		Sensitive:   sensitive,
		SpoilerText: in.Optional(InputSpoilerText),
		Language:    in.Optional(InputLanguage),
	}, nil
}

// Publish validates, opens a session and creates the status. Login always
// completes before the post call; neither is retried.
func (p *Publisher) Publish(ctx context.Context, cfg *config.Config, in action.Inputs) (res model.PostResult, err error) {
	defer func() {
		if err != nil {
			metrics.PublishErrors.WithLabelValues(string(KindOf(err))).Inc()
		}
	}()

	req, err := p.Prepare(cfg, in)
	if err != nil {
		return res, err
	}

	start := time.Now()
	sess, err := p.Connector.Login(ctx, mastoclient.LoginParams{
		URL:                 cfg.Instance.URL,
		AccessToken:         cfg.Instance.AccessToken,
		Timeout:             cfg.Client.Timeout,
		UserAgent:           cfg.Client.UserAgent,
		DisableVersionCheck: !cfg.Client.StrictVersionCheck,
	})
	if err != nil {
		return res, fail(KindRemote, err)
	}
	logging.Debug("session_opened", map[string]any{"instance": cfg.Instance.URL})

	st, err := sess.CreateStatus(ctx, req)
	if err != nil {
		return res, fail(KindRemote, err)
	}
	metrics.ObservePublishDuration(start)
	metrics.Published.WithLabelValues(string(req.Visibility)).Inc()

	return model.PostResult{ID: st.ID, URL: st.URL, PublishedAt: p.now()}, nil
}

// Run publishes and records the outputs. On failure no output is set.
func (p *Publisher) Run(ctx context.Context, cfg *config.Config, in action.Inputs, out action.Outputs) error {
	res, err := p.Publish(ctx, cfg, in)
	if err != nil {
		return err
	}
	err = out.SetOutputs(
		action.Output{Name: OutputTimestamp, Value: res.Timestamp()},
		action.Output{Name: OutputURL, Value: res.URL},
		action.Output{Name: OutputID, Value: res.ID},
	)
	if err != nil {
		return err
	}
	logging.Info("Toot successfully published!", map[string]any{"url": res.URL, "id": res.ID})
	return nil
}

func (p *Publisher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
