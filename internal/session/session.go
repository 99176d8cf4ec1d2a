package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/five82/viewlog/internal/logging"
)

// Greeting is the text frame sent once after every successful handshake.
const Greeting = "Hello Server!"

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
)

// Options configure a Session.
type Options struct {
	// Reconnect re-dials with exponential backoff after a transport loss
	// instead of closing.
	Reconnect bool
	// Backoff is the first reconnect delay. Zero uses DefaultBackoff.
	Backoff time.Duration
	// MaxAttempts bounds consecutive failed reconnects. Zero is unbounded.
	MaxAttempts int
	// Dialer overrides the websocket dialer.
	Dialer *websocket.Dialer
	// Logger overrides the diagnostic logger.
	Logger *log.Logger
}

// Session owns a single websocket connection and reports its events to
// registered handlers. Handlers run on the session's goroutine, one at a
// time, in arrival order. They must not block and must not call Close.
type Session struct {
	opts   Options
	id     string
	logger *log.Logger

	mu       sync.Mutex
	state    State
	endpoint string
	conn     *websocket.Conn
	cancel   context.CancelFunc
	done     chan struct{}
	closing  bool

	onMessage []func(string)
	onOpen    []func()
	onClose   []func(code int, reason string)
	onError   []func(error)
	onState   []func(State)
}

// New returns an idle session.
func New(opts Options) *Session {
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("session")
	}
	return &Session{
		opts:   opts,
		id:     id,
		logger: logger.With("session", id),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Endpoint returns the URL passed to Open.
func (s *Session) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

// OnMessage registers a handler for every inbound payload.
func (s *Session) OnMessage(fn func(text string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessage = append(s.onMessage, fn)
}

// OnOpen registers a handler called once the connection is ready, before the
// greeting is sent.
func (s *Session) OnOpen(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOpen = append(s.onOpen, fn)
}

// OnClose registers a handler for a close initiated by the remote side or
// the transport. An explicit Close does not call it.
func (s *Session) OnClose(fn func(code int, reason string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, fn)
}

// OnError registers a handler for dial and transport errors.
func (s *Session) OnError(fn func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = append(s.onError, fn)
}

// OnStateChange registers a handler for lifecycle transitions.
func (s *Session) OnStateChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = append(s.onState, fn)
}

// Open starts the session against endpoint (a ws:// or wss:// URL). Dialing
// happens in the background; Open only fails for an invalid endpoint or a
// session that was already opened or closed.
func (s *Session) Open(ctx context.Context, endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("endpoint %q: scheme must be ws or wss", endpoint)
	}

	s.mu.Lock()
	switch {
	case s.closing:
		s.mu.Unlock()
		return ErrClosed
	case s.done != nil:
		s.mu.Unlock()
		return ErrAlreadyOpened
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.endpoint = endpoint
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.run(runCtx, endpoint)
	return nil
}

// Close ends the session. It is idempotent, safe on a session that was never
// opened, and returns only after the session goroutine has exited, so no
// handler runs once Close has returned.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closing {
		done := s.done
		s.mu.Unlock()
		if done != nil {
			<-done
		}
		return nil
	}
	s.closing = true
	s.state = StateClosed
	conn, cancel, done := s.conn, s.cancel, s.done
	s.mu.Unlock()

	if conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = conn.Close()
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
		s.logger.Info("session closed")
	}
	return nil
}

func (s *Session) run(ctx context.Context, endpoint string) {
	defer close(s.done)
	// Reached on cancellation too, so subscribers always see the final
	// state. After Close no handler runs.
	defer s.transition(StateClosed)

	failures := 0
	for {
		s.transition(StateConnecting)
		s.logger.Debug("dialing", "endpoint", endpoint, "attempt", failures+1)

		conn, err := s.dial(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("dial failed", "endpoint", endpoint, "err", err)
			s.emitError(err)
			if !s.wait(ctx, &failures) {
				s.finish(websocket.CloseAbnormalClosure, err.Error())
				return
			}
			continue
		}

		if !s.attach(conn) {
			_ = conn.Close()
			return
		}
		failures = 0
		code, reason, err := s.serve(ctx, conn)
		s.detach(conn)
		_ = conn.Close()

		if ctx.Err() != nil || s.isClosing() {
			return
		}
		if err != nil {
			s.logger.Warn("transport error", "err", err)
			s.emitError(err)
		}
		s.logger.Info("connection lost", "code", code, "reason", reason)
		if !s.wait(ctx, &failures) {
			s.finish(code, reason)
			return
		}
	}
}

// serve runs one connection: open, greeting, then the read loop.
func (s *Session) serve(ctx context.Context, conn *websocket.Conn) (code int, reason string, err error) {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	s.transition(StateOpen)
	s.logger.Info("session open", "endpoint", s.Endpoint())
	s.emitOpen()

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(Greeting)); err != nil {
		return websocket.CloseAbnormalClosure, "", fmt.Errorf("send greeting: %w", err)
	}
	_ = conn.SetWriteDeadline(time.Time{})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			// 1006 is synthesized locally for a dropped transport.
			if errors.As(err, &ce) && ce.Code != websocket.CloseAbnormalClosure {
				return ce.Code, ce.Text, nil
			}
			return websocket.CloseAbnormalClosure, "", fmt.Errorf("read: %w", err)
		}
		s.emitMessage(string(data))
	}
}

func (s *Session) dial(ctx context.Context, endpoint string) (*websocket.Conn, error) {
	dialer := s.opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		}
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return conn, nil
}

// wait sleeps out the reconnect backoff. It reports false when the session
// must close instead.
func (s *Session) wait(ctx context.Context, failures *int) bool {
	if !s.opts.Reconnect {
		return false
	}
	if s.opts.MaxAttempts > 0 && *failures >= s.opts.MaxAttempts {
		s.logger.Warn("giving up reconnecting", "attempts", *failures)
		return false
	}
	delay := calculateBackoff(*failures, s.opts.Backoff)
	*failures++

	s.transition(StateReconnecting)
	s.logger.Info("reconnecting", "in", delay, "attempt", *failures)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Session) finish(code int, reason string) {
	s.transition(StateClosed)
	s.emitClose(code, reason)
}

func (s *Session) attach(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conn = conn
	return true
}

func (s *Session) detach(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == conn {
		s.conn = nil
	}
}

func (s *Session) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *Session) transition(next State) {
	s.mu.Lock()
	if s.closing || s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	handlers := s.onState
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(next)
	}
}

func (s *Session) emitMessage(text string) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	handlers := s.onMessage
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(text)
	}
}

func (s *Session) emitOpen() {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	handlers := s.onOpen
	s.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

func (s *Session) emitClose(code int, reason string) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	handlers := s.onClose
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(code, reason)
	}
}

func (s *Session) emitError(err error) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	handlers := s.onError
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(err)
	}
}
