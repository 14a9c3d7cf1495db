package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrapi-go/pkg/models"
)

type fakeBackend struct {
	sendCalls    []string
	historyCalls int
	clearCalls   int
	reply        string
	sendErr      error
	history      []models.ChatMessage
}

func (f *fakeBackend) SendGlobalChat(_ context.Context, message string) (*models.GlobalChatReply, error) {
	f.sendCalls = append(f.sendCalls, message)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	var r models.GlobalChatReply
	if err := json.Unmarshal([]byte(f.reply), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (f *fakeBackend) GlobalChatHistory(_ context.Context, _ int) ([]models.ChatMessage, error) {
	f.historyCalls++
	return f.history, nil
}

func (f *fakeBackend) ClearGlobalChatHistory(_ context.Context) error {
	f.clearCalls++
	return nil
}

func TestSession_BlankMessageIgnored(t *testing.T) {
	s := NewSession()
	b := &fakeBackend{}

	for _, text := range []string{"", "   ", "\n\t"} {
		_, sent, err := s.Send(context.Background(), b, text)
		require.NoError(t, err)
		assert.False(t, sent)
	}
	assert.Empty(t, s.Messages())
	assert.Empty(t, b.sendCalls)
}

func TestSession_InFlightGuard(t *testing.T) {
	s := NewSession()
	s.Open()

	p, ok := s.BeginSend("first")
	require.True(t, ok)
	assert.Equal(t, StateAwaiting, s.State(), "a send outranks the history load")

	_, ok = s.BeginSend("second")
	assert.False(t, ok)
	assert.Len(t, s.Messages(), 1)

	s.HistoryLoaded(nil, nil)
	assert.Equal(t, StateAwaiting, s.State())

	_, err := s.FinishSend(p, &models.GlobalChatReply{Response: "ok"}, nil)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_FinishSendWhileHistoryLoads(t *testing.T) {
	s := NewSession()
	s.Open()

	p, _ := s.BeginSend("first")
	_, err := s.FinishSend(p, &models.GlobalChatReply{Response: "ok"}, nil)
	require.NoError(t, err)
	assert.Equal(t, StateLoadingHistory, s.State())

	s.HistoryLoaded(nil, nil)
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_SendNestedNavigate(t *testing.T) {
	s := NewSession()
	b := &fakeBackend{reply: `{"response":"Done","action":{"action":"navigate","page":"actors"}}`}

	action, sent, err := s.Send(context.Background(), b, "show actors")
	require.NoError(t, err)
	require.True(t, sent)

	assert.Equal(t, Navigate{Page: "actors"}, action)
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "show actors"}, Message{Role: msgs[0].Role, Content: msgs[0].Content})
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Done", msgs[1].Content)

	effects := Plan(action)
	require.Len(t, effects, 1)
	assert.Equal(t, "/actors", effects[0].Path)
	assert.Equal(t, 800*time.Millisecond, effects[0].At)
}

func TestSession_SendFailureAppendsApology(t *testing.T) {
	s := NewSession()
	b := &fakeBackend{sendErr: errors.New("connection refused")}

	action, sent, err := s.Send(context.Background(), b, "hello")
	assert.True(t, sent)
	assert.Error(t, err)
	assert.Nil(t, action)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, ErrorReply, msgs[1].Content)
	assert.False(t, s.InFlight())
}

func TestSession_UnknownActionKeepsReply(t *testing.T) {
	s := NewSession()
	b := &fakeBackend{reply: `{"response":"Hmm","action":"teleport"}`}

	action, _, err := s.Send(context.Background(), b, "go")
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Nil(t, action)

	reply, ok := s.LastReply()
	require.True(t, ok)
	assert.Equal(t, "Hmm", reply)
}

func TestSession_HistoryOncePerOpen(t *testing.T) {
	s := NewSession()
	b := &fakeBackend{history: []models.ChatMessage{
		{Role: "user", Content: "earlier", CreatedAt: time.Now()},
		{Role: "assistant", Content: "reply"},
	}}
	ctx := context.Background()

	require.NoError(t, s.LoadHistory(ctx, b, 50))
	assert.Equal(t, 1, b.historyCalls)
	assert.Len(t, s.Messages(), 2)

	s.Minimize()
	assert.Equal(t, StateMinimized, s.State())
	assert.False(t, s.Open(), "restore after minimize does not refetch")
	assert.Equal(t, StateIdle, s.State())

	s.Close()
	assert.Equal(t, StateClosed, s.State())
	assert.Empty(t, s.Messages())

	require.NoError(t, s.LoadHistory(ctx, b, 50))
	assert.Equal(t, 2, b.historyCalls, "reopen after close refetches")
}

func TestSession_HistoryKeepsMessagesSentWhileLoading(t *testing.T) {
	s := NewSession()
	require.True(t, s.Open())
	assert.Equal(t, StateLoadingHistory, s.State())

	p, ok := s.BeginSend("quick question")
	require.True(t, ok)
	s.HistoryLoaded([]models.ChatMessage{{Role: "assistant", Content: "old"}}, nil)
	_, _ = s.FinishSend(p, &models.GlobalChatReply{Response: "answer"}, nil)

	var contents []string
	for _, m := range s.Messages() {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"old", "quick question", "answer"}, contents)
}

func TestSession_ReplyAfterCloseDropped(t *testing.T) {
	s := NewSession()
	s.Open()
	p, _ := s.BeginSend("hello")
	s.Close()

	action, err := s.FinishSend(p, &models.GlobalChatReply{Response: "late"}, nil)
	assert.NoError(t, err)
	assert.Nil(t, action)
	assert.Empty(t, s.Messages())
}

func TestSession_ClearNeedsConfirmation(t *testing.T) {
	s := NewSession()
	s.Open()
	s.HistoryLoaded(nil, nil)
	s.BeginSend("one")

	assert.False(t, s.ConfirmClear(), "no prompt shown yet")
	assert.Len(t, s.Messages(), 1)

	s.RequestClear()
	s.CancelClear()
	assert.Len(t, s.Messages(), 1)

	s.RequestClear()
	assert.True(t, s.ConfirmingClear())
	assert.True(t, s.ConfirmClear())
	assert.Empty(t, s.Messages(), "cleared before any DELETE completes")
}

func TestSession_ClearWinsOverPendingHistory(t *testing.T) {
	s := NewSession()
	require.True(t, s.Open())

	s.RequestClear()
	require.True(t, s.ConfirmClear())
	assert.Equal(t, StateIdle, s.State())

	s.HistoryLoaded([]models.ChatMessage{{Role: "user", Content: "old"}, {Role: "assistant", Content: "older"}}, nil)
	assert.Empty(t, s.Messages(), "history that lands after a clear is dropped")

	assert.False(t, s.Open(), "still open, no refetch")
}

func TestSession_Toggle(t *testing.T) {
	s := NewSession()
	assert.True(t, s.Toggle())
	assert.Equal(t, StateLoadingHistory, s.State())
	assert.False(t, s.Toggle())
	assert.Equal(t, StateClosed, s.State())
}
