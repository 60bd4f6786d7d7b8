package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"tootaction/internal/action"
	"tootaction/internal/cmdlog"
	"tootaction/internal/config"
	"tootaction/internal/logging"
	"tootaction/internal/mastoclient"
	"tootaction/internal/metrics"
	"tootaction/internal/publish"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type initCmd struct {
	Path string `arg:"--path" default:"./tootaction.yaml" help:"where to write the settings file"`
}

type args struct {
	Init        *initCmd `arg:"subcommand:init" help:"write a default settings file"`
	Config      string   `arg:"--config" help:"YAML settings file (default $TOOT_CONFIG)"`
	EnvFile     string   `arg:"--env-file" help:"load variables from a dotenv file before reading the environment"`
	MetricsFile string   `arg:"--metrics-file" help:"write prometheus metrics here (default $TOOT_METRICS_FILE)"`
	Message     string   `arg:"--message" help:"status text, overrides INPUT_MESSAGE"`
	Visibility  string   `arg:"--visibility" help:"direct|public|unlisted|followers_only, overrides INPUT_VISIBILITY"`
	Language    string   `arg:"--language" help:"ISO 639 language code, overrides INPUT_LANGUAGE"`
}

func (args) Version() string { return "tootaction " + Version }

func (args) Description() string {
	return "Publishes a status to a Mastodon instance configured by MASTODON_URL and MASTODON_ACCESS_TOKEN."
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, argv []string, stdout io.Writer) int {
	runner := action.NewRunner(stdout)

	var a args
	p, err := arg.NewParser(arg.Config{Program: "tootaction"}, &a)
	if err != nil {
		runner.Fail(err)
		return 1
	}
	switch err := p.Parse(argv); {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(stdout)
		return 0
	case errors.Is(err, arg.ErrVersion):
		fmt.Fprintln(stdout, a.Version())
		return 0
	case err != nil:
		runner.Fail(err)
		return 2
	}

	if a.Init != nil {
		return cmdInit(a.Init.Path, runner, stdout)
	}

	if a.EnvFile != "" {
		if err := godotenv.Load(a.EnvFile); err != nil {
			runner.Fail(fmt.Errorf("load env file: %w", err))
			return 1
		}
		runner.OutputFile = os.Getenv("GITHUB_OUTPUT")
	}
	defer func() { _ = logging.Sync() }()
	logging.Debug("start", map[string]any{"version": Version})

	err = cmdlog.Run("publish", func() error {
		path := a.Config
		if path == "" {
			path = os.Getenv("TOOT_CONFIG")
		}
		cfg, err := config.Load(path)
		if err != nil {
			return &publish.Error{Kind: publish.KindConfig, Err: err}
		}
		in := action.Overlay(action.NewEnvInputs(), map[string]string{
			publish.InputMessage:    a.Message,
			publish.InputVisibility: a.Visibility,
			publish.InputLanguage:   a.Language,
		})
		return publish.New(mastoclient.Dialer{}).Run(ctx, &cfg, in, runner)
	})
	if werr := metrics.WriteTextfile(a.MetricsFile); werr != nil {
		logging.Error("metrics_write_error", map[string]any{"error": werr.Error()})
	}
	if err != nil {
		runner.Fail(err)
		return 1
	}
	return 0
}

func cmdInit(path string, runner *action.Runner, stdout io.Writer) int {
	if err := config.Save(path, config.Default()); err != nil {
		runner.Fail(err)
		return 1
	}
	abs, _ := filepath.Abs(path)
	fmt.Fprintln(stdout, "Config written to:", abs)
	return 0
}
