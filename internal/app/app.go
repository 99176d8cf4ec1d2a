package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/viewlog/internal/config"
	"github.com/five82/viewlog/internal/ingest"
	"github.com/five82/viewlog/internal/logging"
	"github.com/five82/viewlog/internal/prefs"
	"github.com/five82/viewlog/internal/session"
	"github.com/five82/viewlog/internal/ui"
)

// Options configure the viewer.
type Options struct {
	Config    config.Config
	PrefsPath string        // empty uses ~/.config/viewlog/prefs.toml
	Window    time.Duration // zero uses the 500ms default
	Capacity  int           // zero keeps 1000 lines
	Out       io.Writer     // plain mode output; nil uses stdout
	Logger    *log.Logger
}

// Run boots the TUI viewer until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := loggerFor(opts)

	endpoint, err := session.EndpointURL(opts.Config.Host, opts.Config.Secure)
	if err != nil {
		return fmt.Errorf("resolve endpoint: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("prefs unreadable, using defaults", "err", err)
	}
	saver := prefs.NewSaver(opts.PrefsPath, prefs.DefaultSaveDelay, func(err error) {
		logger.Warn("save prefs failed", "err", err)
	})

	sess, events := connect(opts, logger)
	if err := sess.Open(ctx, endpoint.String()); err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	runErr := ui.Run(ui.Options{
		Context:   ctx,
		Events:    events,
		Endpoint:  endpoint.String(),
		SessionID: sess.ID(),
		Window:    opts.Window,
		Capacity:  opts.Capacity,
		ThemeName: userPrefs.Theme,
		Saver:     saver,
		Logger:    logging.New("ui"),
	})

	// The UI already stopped its pipeline; now end the session.
	_ = sess.Close()
	events.Close()
	if err := saver.Flush(); err != nil {
		logger.Warn("save prefs failed", "err", err)
	}
	return runErr
}

// connect creates a session whose events are queued on a fresh inbox.
func connect(opts Options, logger *log.Logger) (*session.Session, *ingest.Inbox[session.Event]) {
	sess := session.New(session.Options{
		Reconnect: opts.Config.Reconnect,
		Logger:    logging.New("session"),
	})
	events := ingest.NewInbox[session.Event]()
	sess.Forward(events.Push)
	logger.Debug("session created", "session", sess.ID(), "reconnect", opts.Config.Reconnect)
	return sess, events
}

func loggerFor(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return logging.New("app")
}
