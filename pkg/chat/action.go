package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind names an assistant action on the wire.
type Kind string

const (
	KindNavigate   Kind = "navigate"
	KindOpenActor  Kind = "open_actor"
	KindViewRun    Kind = "view_run"
	KindFillAndRun Kind = "fill_and_run"
	KindExport     Kind = "export"
)

var (
	ErrUnknownAction = errors.New("unknown chat action")
	ErrInvalidAction = errors.New("invalid chat action")
)

// Action is one structured command attached to an assistant reply. The set
// of implementations is closed.
type Action interface {
	Kind() Kind
	// Banner is the optional feedback text shown as soon as the reply lands.
	Banner() string
	isAction()
}

type Navigate struct {
	Page    string
	Message string
}

type OpenActor struct {
	ActorID string
	Message string
}

type ViewRun struct {
	Page    string
	Message string
}

type FillAndRun struct {
	RunID   string
	Message string
}

type Export struct {
	RunID   string
	Format  string
	Message string
}

func (Navigate) Kind() Kind   { return KindNavigate }
func (OpenActor) Kind() Kind  { return KindOpenActor }
func (ViewRun) Kind() Kind    { return KindViewRun }
func (FillAndRun) Kind() Kind { return KindFillAndRun }
func (Export) Kind() Kind     { return KindExport }

func (a Navigate) Banner() string   { return a.Message }
func (a OpenActor) Banner() string  { return a.Message }
func (a ViewRun) Banner() string    { return a.Message }
func (a FillAndRun) Banner() string { return a.Message }
func (a Export) Banner() string     { return a.Message }

func (Navigate) isAction()   {}
func (OpenActor) isAction()  {}
func (ViewRun) isAction()    {}
func (FillAndRun) isAction() {}
func (Export) isAction()     {}

// actionFields are the keys an action may carry, flattened or nested.
type actionFields struct {
	Page    string `json:"page"`
	RunID   string `json:"run_id"`
	ActorID string `json:"actor_id"`
	Format  string `json:"format"`
	Message string `json:"message"`
}

// ParseAction extracts the action from a raw chat reply. The backend sends
// either {"action": "navigate", "page": ...} with fields at the top level or
// {"action": {"action": "navigate", "page": ...}}. A reply without an action
// yields (nil, nil).
func ParseAction(raw json.RawMessage) (Action, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	actionRaw, ok := top["action"]
	if !ok || isNull(actionRaw) {
		return nil, nil
	}

	var kind string
	fieldsRaw := raw
	if err := json.Unmarshal(actionRaw, &kind); err != nil {
		// Nested object form.
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(actionRaw, &nested); err != nil {
			return nil, fmt.Errorf("%w: action is neither a string nor an object", ErrInvalidAction)
		}
		for _, key := range []string{"action", "type", "kind"} {
			if v, ok := nested[key]; ok {
				if err := json.Unmarshal(v, &kind); err == nil {
					break
				}
			}
		}
		fieldsRaw = actionRaw
	}

	var f actionFields
	if err := json.Unmarshal(fieldsRaw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	return build(Kind(strings.TrimSpace(kind)), f)
}

func build(kind Kind, f actionFields) (Action, error) {
	switch kind {
	case KindNavigate:
		if f.Page == "" {
			return nil, fmt.Errorf("%w: navigate without page", ErrInvalidAction)
		}
		return Navigate{Page: f.Page, Message: f.Message}, nil
	case KindOpenActor:
		if f.ActorID == "" {
			return nil, fmt.Errorf("%w: open_actor without actor_id", ErrInvalidAction)
		}
		return OpenActor{ActorID: f.ActorID, Message: f.Message}, nil
	case KindViewRun:
		if f.Page == "" {
			return nil, fmt.Errorf("%w: view_run without page", ErrInvalidAction)
		}
		return ViewRun{Page: f.Page, Message: f.Message}, nil
	case KindFillAndRun:
		if f.RunID == "" {
			return nil, fmt.Errorf("%w: fill_and_run without run_id", ErrInvalidAction)
		}
		return FillAndRun{RunID: f.RunID, Message: f.Message}, nil
	case KindExport:
		if f.RunID == "" {
			return nil, fmt.Errorf("%w: export without run_id", ErrInvalidAction)
		}
		format := strings.ToLower(f.Format)
		if format == "" {
			format = "json"
		}
		return Export{RunID: f.RunID, Format: format, Message: f.Message}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == `""` || s == "false"
}
