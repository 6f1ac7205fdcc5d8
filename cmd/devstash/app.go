package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/randalmurphal/devstash/config"
	clierrors "github.com/randalmurphal/devstash/errors"
	"github.com/randalmurphal/devstash/git"
	"github.com/randalmurphal/devstash/notify"
	"github.com/randalmurphal/devstash/stash"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	repo       string
	logLevel   string
	logFormat  string
	gitBinary  string
	jsonOutput bool
}

func bindFlags(fs *pflag.FlagSet, o *globalOptions) {
	fs.StringVarP(&o.repo, "repo", "C", ".", "path inside the git repository")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "", "log format: text or json")
	fs.StringVar(&o.gitBinary, "git", "", "git executable to run")
	fs.BoolVar(&o.jsonOutput, "json", false, "output as JSON")
}

// configFlags maps flag values onto config keys. Unset flags are empty
// and do not override other sources.
func (o *globalOptions) configFlags() map[string]string {
	return map[string]string{
		config.KeyLogLevel:  o.logLevel,
		config.KeyLogFormat: o.logFormat,
		config.KeyGitBinary: o.gitBinary,
	}
}

// app carries state resolved once per invocation.
type app struct {
	opts     globalOptions
	resolver *config.Resolver
	settings config.Settings
	logger   *slog.Logger
}

// load resolves configuration and builds the logger. Log output goes to stderr.
func (a *app) load(stderr io.Writer) error {
	a.resolver = config.NewResolver(a.opts.repo,
		config.WithResolverLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	settings, err := a.resolver.ResolveWithFlags(a.opts.configFlags()).Settings()
	if err != nil {
		return err
	}
	a.settings = settings
	a.logger = newLogger(stderr, settings)

	for _, w := range a.resolver.Warnings {
		a.logger.Warn(w)
	}
	return nil
}

// openStore loads configuration and opens the stash store for --repo.
func (a *app) openStore(stderr io.Writer) (*stash.Store, error) {
	if err := a.load(stderr); err != nil {
		return nil, err
	}

	// Run from the repository root so untracked files anywhere in the
	// tree are stashed, not just those under --repo.
	dir := a.resolver.RepoRoot()
	if dir == "" {
		dir = a.opts.repo
	}
	g, err := git.NewContext(dir, git.WithBinary(a.settings.GitBinary))
	if err != nil {
		return nil, a.wrap(err)
	}

	return stash.NewStore(g,
		stash.WithLogger(a.logger),
		stash.WithNotifier(newNotifier(a.settings, a.logger)),
	), nil
}

// wrap converts git and stash failures into user-facing errors.
func (a *app) wrap(err error) error {
	return clierrors.WrapStashError(err, clierrors.WithGitBinary(a.settings.GitBinary))
}

func newLogger(w io.Writer, settings config.Settings) *slog.Logger {
	opts := &slog.HandlerOptions{Level: settings.LogLevel()}
	if settings.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newNotifier fans stash events out to the debug log and, when configured,
// to the webhook.
func newNotifier(settings config.Settings, logger *slog.Logger) notify.Notifier {
	var notifiers []notify.Notifier
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		notifiers = append(notifiers, notify.NewLogNotifier(logger.With("component", "notify")))
	}
	if settings.NotifyWebhook != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(settings.NotifyWebhook, nil))
	}

	switch len(notifiers) {
	case 0:
		return notify.NopNotifier{}
	case 1:
		return notifiers[0]
	default:
		multi := notify.NewMultiNotifier(notifiers...)
		multi.Logger = logger
		return multi
	}
}
