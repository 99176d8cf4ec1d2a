package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/viewlog/internal/ingest"
	"github.com/five82/viewlog/internal/session"
	"github.com/five82/viewlog/internal/state"
)

// RunPlain streams the log to Options.Out without a TUI. Lines are written
// once per flush window, in arrival order. It returns when the remote side
// closes the session for good or the context is cancelled.
func RunPlain(ctx context.Context, opts Options) error {
	logger := loggerFor(opts)

	endpoint, err := session.EndpointURL(opts.Config.Host, opts.Config.Secure)
	if err != nil {
		return fmt.Errorf("resolve endpoint: %w", err)
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess, events := connect(opts, logger)
	if err := sess.Open(ctx, endpoint.String()); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	logger.Info("streaming", "endpoint", endpoint.String())

	pipeline := ingest.NewPipeline(opts.Window, opts.Capacity)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return pump(gctx, events, pipeline, newPrinter(out), logger)
	})
	g.Go(func() error {
		<-gctx.Done()
		pipeline.Stop()
		err := sess.Close()
		events.Close()
		return err
	})
	return g.Wait()
}

// pump is the plain event loop: session events, the flush timer and
// cancellation are all handled here, one at a time.
func pump(ctx context.Context, events *ingest.Inbox[session.Event], pipeline *ingest.Pipeline, p *printer, logger *log.Logger) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		armed   uint64
		opened  bool
		lastErr error
		stopTm  = func() {
			if timer != nil {
				timer.Stop()
			}
		}
	)
	defer stopTm()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-fire:
			fire = nil
			if snap, changed := pipeline.Tick(armed); changed {
				if err := p.print(snap); err != nil {
					return err
				}
			}

		case <-events.Ready():
			for _, ev := range events.Drain() {
				switch ev.Kind {
				case session.EventMessage:
					if gen, arm := pipeline.Submit(ev.Text); arm {
						armed = gen
						stopTm()
						timer = time.NewTimer(pipeline.Window())
						fire = timer.C
					}
				case session.EventState:
					logger.Info("connection", "state", ev.State)
				case session.EventOpen:
					opened = true
				case session.EventError:
					lastErr = ev.Err
					logger.Warn("session error", "err", ev.Err)
				case session.EventClose:
					logger.Info("closed by remote", "code", ev.Code, "reason", ev.Reason)
					if snap, changed := pipeline.Drain(); changed {
						if err := p.print(snap); err != nil {
							return err
						}
					}
					if !opened && lastErr != nil {
						return fmt.Errorf("connect: %w", lastErr)
					}
					return nil
				}
			}
		}
	}
}

// printer writes entries it has not written before.
type printer struct {
	w    *bufio.Writer
	next uint64
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: bufio.NewWriter(w)}
}

func (p *printer) print(snap state.Snapshot) error {
	for i := 0; i < snap.Len(); i++ {
		e := snap.At(i)
		if e.Seq < p.next {
			continue
		}
		if _, err := fmt.Fprintln(p.w, e.Text); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		p.next = e.Seq + 1
	}
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
