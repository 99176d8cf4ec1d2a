package logserve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/five82/viewlog/internal/logging"
	"github.com/five82/viewlog/internal/logtail"
	"github.com/five82/viewlog/internal/session"
)

// Defaults for Options.
const (
	DefaultAddr = ":4000"
	DefaultTail = 200
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options configure a Server.
type Options struct {
	File         string
	Addr         string
	Tail         int
	PollInterval time.Duration
	Logger       *log.Logger
}

// Server streams a log file to websocket clients, one line per text frame.
type Server struct {
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader
	clients  atomic.Int64
}

// New validates opts and returns a Server.
func New(opts Options) (*Server, error) {
	if opts.File == "" {
		return nil, errors.New("log file is required")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Tail == 0 {
		opts.Tail = DefaultTail
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = logtail.DefaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("logserve")
	}
	return &Server{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Viewers run anywhere; the stream is read-only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Clients reports the number of connected viewers.
func (s *Server) Clients() int64 {
	return s.clients.Load()
}

// Handler returns the HTTP handler serving the log stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(session.Path, s.handleStream)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "ok clients=%d\n", s.Clients())
	})
	return mux
}

// ListenAndServe listens on Options.Addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. Open streams are closed with a going-away frame.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving log stream", "addr", ln.Addr().String(), "file", s.opts.File)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	logger := s.logger.With("remote", r.RemoteAddr)
	s.clients.Add(1)
	defer s.clients.Add(-1)
	logger.Info("viewer connected")

	err = s.stream(r.Context(), conn, logger)
	switch {
	case err == nil, errors.Is(err, context.Canceled),
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		logger.Info("viewer disconnected")
	default:
		logger.Warn("viewer dropped", "err", err)
	}
}

// stream runs one reader and one writer for conn until either fails or ctx
// ends.
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, logger *log.Logger) error {
	defer conn.Close()

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	g.Go(func() error {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return err
			}
			logger.Debug("viewer message", "text", string(data))
		}
	})
	g.Go(func() error {
		lines, offset, err := logtail.Read(s.opts.File, s.opts.Tail)
		if err != nil {
			return err
		}
		if err := send(conn, lines); err != nil {
			return err
		}
		return logtail.Follow(gctx, s.opts.File, offset, s.opts.PollInterval, func(batch []string) error {
			return send(conn, batch)
		})
	})
	return g.Wait()
}

// send writes each line as its own text frame. Only the writer goroutine
// calls it.
func send(conn *websocket.Conn, lines []string) error {
	for _, line := range lines {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	return nil
}
