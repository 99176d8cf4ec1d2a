package session

// EventKind identifies what an Event reports.
type EventKind int

const (
	EventMessage EventKind = iota
	EventOpen
	EventClose
	EventError
	EventState
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventOpen:
		return "open"
	case EventClose:
		return "close"
	case EventError:
		return "error"
	case EventState:
		return "state"
	default:
		return "unknown"
	}
}

// Event is a handler call captured as a value, for consumers that process
// session activity on their own goroutine.
type Event struct {
	Kind   EventKind
	Text   string // EventMessage
	Code   int    // EventClose
	Reason string // EventClose
	Err    error  // EventError
	State  State  // EventState
}

// Forward registers handlers that pass every session event to sink, in the
// order they occur. sink must not block; ingest.Inbox.Push fits.
func (s *Session) Forward(sink func(Event) bool) {
	s.OnStateChange(func(st State) { sink(Event{Kind: EventState, State: st}) })
	s.OnOpen(func() { sink(Event{Kind: EventOpen}) })
	s.OnMessage(func(text string) { sink(Event{Kind: EventMessage, Text: text}) })
	s.OnError(func(err error) { sink(Event{Kind: EventError, Err: err}) })
	s.OnClose(func(code int, reason string) {
		sink(Event{Kind: EventClose, Code: code, Reason: reason})
	})
}
