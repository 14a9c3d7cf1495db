// Package chat implements the assistant widget's conversation state, the
// action protocol carried in assistant replies, and the timed effects those
// actions produce.
package chat

import (
	"context"
	"strings"
	"time"

	"scrapi-go/pkg/models"
)

// Role is who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrorReply is appended when a send fails.
const ErrorReply = "Sorry, I encountered an error. Please try again."

// Message is one transcript entry.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// State is the widget's visible state.
type State int

const (
	StateClosed State = iota
	StateLoadingHistory
	StateIdle
	StateAwaiting
	StateMinimized
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoadingHistory:
		return "loading_history"
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	case StateMinimized:
		return "minimized"
	}
	return "unknown"
}

// Backend is the subset of the API client the global chat uses.
type Backend interface {
	SendGlobalChat(ctx context.Context, message string) (*models.GlobalChatReply, error)
	GlobalChatHistory(ctx context.Context, limit int) ([]models.ChatMessage, error)
	ClearGlobalChatHistory(ctx context.Context) error
}

// Pending is a send that has been started and awaits its reply.
type Pending struct {
	Text  string
	epoch int
}

// Session holds one conversation. It is not safe for concurrent use; the TUI
// event loop is its only writer.
type Session struct {
	open          bool
	minimized     bool
	loading       bool
	historyLoaded bool
	inFlight      bool
	confirmClear  bool
	epoch         int
	messages      []Message

	now func() time.Time
}

// NewSession returns a closed session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// State derives the visible state.
func (s *Session) State() State {
	switch {
	case !s.open:
		return StateClosed
	case s.minimized:
		return StateMinimized
	case s.inFlight:
		return StateAwaiting
	case s.loading:
		return StateLoadingHistory
	default:
		return StateIdle
	}
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	return append([]Message(nil), s.messages...)
}

// InFlight reports whether a send awaits its reply.
func (s *Session) InFlight() bool { return s.inFlight }

// ConfirmingClear reports whether the y/N clear prompt is showing.
func (s *Session) ConfirmingClear() bool { return s.confirmClear }

// LastReply returns the most recent assistant message content.
func (s *Session) LastReply() (string, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == RoleAssistant {
			return s.messages[i].Content, true
		}
	}
	return "", false
}

// Open shows the widget. It reports whether history must be fetched, which
// happens once per Closed to Open transition. Restoring from minimized never
// refetches.
func (s *Session) Open() (fetchHistory bool) {
	s.minimized = false
	if s.open {
		return false
	}
	s.open = true
	if s.historyLoaded || s.loading {
		return false
	}
	s.loading = true
	return true
}

// Toggle closes an open widget and opens a closed one.
func (s *Session) Toggle() (fetchHistory bool) {
	if s.open {
		s.Close()
		return false
	}
	return s.Open()
}

// HistoryLoaded applies a history fetch. Failures still mark history as
// loaded so the widget stays usable. Messages sent while loading stay after
// the history.
func (s *Session) HistoryLoaded(history []models.ChatMessage, err error) {
	if !s.loading {
		return
	}
	s.loading = false
	s.historyLoaded = true
	if err != nil {
		return
	}
	loaded := make([]Message, 0, len(history)+len(s.messages))
	for _, h := range history {
		ts := h.CreatedAt
		if ts.IsZero() {
			ts = s.now()
		}
		loaded = append(loaded, Message{Role: Role(h.Role), Content: h.Content, Timestamp: ts})
	}
	s.messages = append(loaded, s.messages...)
}

func (s *Session) Minimize() {
	if s.open {
		s.minimized = true
	}
}

func (s *Session) Restore() {
	s.minimized = false
}

// Close hides the widget and discards the local transcript. The server copy
// is untouched and is fetched again on the next open.
func (s *Session) Close() {
	s.open = false
	s.minimized = false
	s.loading = false
	s.historyLoaded = false
	s.inFlight = false
	s.confirmClear = false
	s.messages = nil
	s.epoch++
}

// BeginSend appends the user message and marks a request in flight. ok is
// false, and nothing changes, when text is blank or a send is already
// in flight.
func (s *Session) BeginSend(text string) (p Pending, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" || s.inFlight {
		return Pending{}, false
	}
	s.messages = append(s.messages, Message{Role: RoleUser, Content: text, Timestamp: s.now()})
	s.inFlight = true
	return Pending{Text: text, epoch: s.epoch}, true
}

// FinishSend applies the outcome of a send. A failed send appends the
// standard error reply and returns the error for logging only. A reply whose
// action cannot be parsed keeps its text and returns the parse error with a
// nil action. Replies arriving after Close are dropped.
func (s *Session) FinishSend(p Pending, reply *models.GlobalChatReply, err error) (Action, error) {
	if p.epoch != s.epoch {
		return nil, nil
	}
	s.inFlight = false
	if err != nil {
		s.messages = append(s.messages, Message{Role: RoleAssistant, Content: ErrorReply, Timestamp: s.now()})
		return nil, err
	}
	if reply == nil {
		s.messages = append(s.messages, Message{Role: RoleAssistant, Content: ErrorReply, Timestamp: s.now()})
		return nil, nil
	}

	ts := s.now()
	if parsed, perr := time.Parse(time.RFC3339, reply.Timestamp); perr == nil {
		ts = parsed
	}
	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: reply.Response, Timestamp: ts})

	return ParseAction(reply.Raw)
}

// Send runs BeginSend, the backend call and FinishSend in one blocking call.
// sent is false when the message was ignored.
func (s *Session) Send(ctx context.Context, backend Backend, text string) (action Action, sent bool, err error) {
	p, ok := s.BeginSend(text)
	if !ok {
		return nil, false, nil
	}
	reply, sendErr := backend.SendGlobalChat(ctx, p.Text)
	action, err = s.FinishSend(p, reply, sendErr)
	return action, true, err
}

// LoadHistory opens the session and fetches history when needed.
func (s *Session) LoadHistory(ctx context.Context, backend Backend, limit int) error {
	if !s.Open() {
		return nil
	}
	history, err := backend.GlobalChatHistory(ctx, limit)
	s.HistoryLoaded(history, err)
	return err
}

// RequestClear shows the y/N confirmation.
func (s *Session) RequestClear() {
	if s.open {
		s.confirmClear = true
	}
}

// CancelClear dismisses the confirmation.
func (s *Session) CancelClear() {
	s.confirmClear = false
}

// ConfirmClear empties the transcript at once and reports whether the caller
// should now delete the server history. A history fetch still in flight is
// abandoned so it cannot bring the cleared messages back.
func (s *Session) ConfirmClear() bool {
	if !s.confirmClear {
		return false
	}
	s.confirmClear = false
	s.messages = nil
	s.loading = false
	s.historyLoaded = true
	return true
}
