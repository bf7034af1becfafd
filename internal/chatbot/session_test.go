package chatbot

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdc-club/backend/internal/models"
)

func decodeMessage(t *testing.T, ev WSMessage) models.Message {
	t.Helper()
	require.Equal(t, EventMessage, ev.Event)
	var m models.Message
	require.NoError(t, json.Unmarshal(ev.Data, &m))
	return m
}

func decodeTyping(t *testing.T, ev WSMessage) bool {
	t.Helper()
	require.Equal(t, EventTyping, ev.Event)
	var st TypingState
	require.NoError(t, json.Unmarshal(ev.Data, &st))
	return st.Typing
}

func TestSession_OpenSendsGreeting(t *testing.T) {
	send := make(chan WSMessage, 8)
	s := NewSession(context.Background(), seeded(), 0, send)
	s.Open()

	m := decodeMessage(t, <-send)
	assert.False(t, m.IsUser)
	assert.Equal(t, Greeting.Text, m.Text)
	assert.Equal(t, Greeting.Options, m.Options)
}

func TestSession_AskImmediateReply(t *testing.T) {
	send := make(chan WSMessage, 8)
	s := NewSession(context.Background(), seeded(), 0, send)
	s.Ask("What are the requirements?")

	user := decodeMessage(t, <-send)
	assert.True(t, user.IsUser)
	assert.Equal(t, "What are the requirements?", user.Text)
	assert.True(t, decodeTyping(t, <-send))

	bot := decodeMessage(t, <-send)
	assert.False(t, bot.IsUser)
	assert.Equal(t, Intents[1].Responses[0].Text, bot.Text)
	assert.False(t, decodeTyping(t, <-send))

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
	assert.False(t, s.Typing())
}

func TestSession_BlankInputIgnored(t *testing.T) {
	send := make(chan WSMessage, 8)
	s := NewSession(context.Background(), seeded(), 0, send)
	s.Ask("   ")
	assert.Empty(t, s.Messages())
	assert.Len(t, send, 0)
}

func TestSession_OptionIsCleaned(t *testing.T) {
	send := make(chan WSMessage, 8)
	s := NewSession(context.Background(), seeded(), 0, send)
	s.Handle(WSMessage{Event: EventOption, Data: json.RawMessage(`{"text":"• Club activities"}`)})

	user := decodeMessage(t, <-send)
	assert.Equal(t, "Club activities", user.Text)
}

func TestSession_DelayedReplyCancelledOnClose(t *testing.T) {
	send := make(chan WSMessage, 8)
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSession(ctx, seeded(), time.Hour, send)
	s.Ask("how to join")
	<-send // user message
	assert.True(t, decodeTyping(t, <-send))
	assert.True(t, s.Typing())

	cancel()
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, s.Messages(), 1)
}

func TestSession_DelayedReplyArrives(t *testing.T) {
	send := make(chan WSMessage, 8)
	s := NewSession(context.Background(), seeded(), 10*time.Millisecond, send)
	s.Ask("perks")
	<-send
	<-send

	select {
	case ev := <-send:
		assert.Equal(t, Intents[4].Responses[0].Text, decodeMessage(t, ev).Text)
	case <-time.After(2 * time.Second):
		t.Fatal("reply not delivered")
	}
}

func TestSession_ConcurrentRepliesEndNotTyping(t *testing.T) {
	const asks = 50
	send := make(chan WSMessage, asks*4)
	s := NewSession(context.Background(), seeded(), time.Millisecond, send)

	var wg sync.WaitGroup
	for i := 0; i < asks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Ask("hello")
		}()
	}
	wg.Wait()
	require.Eventually(t, func() bool { return len(send) == asks*4 }, time.Second, 5*time.Millisecond)
	assert.False(t, s.Typing())

	var sent []string
	var lastTyping bool
	for i := 0; i < asks*4; i++ {
		ev := <-send
		switch ev.Event {
		case EventMessage:
			sent = append(sent, decodeMessage(t, ev).ID)
		case EventTyping:
			lastTyping = decodeTyping(t, ev)
		}
	}
	assert.False(t, lastTyping)

	var recorded []string
	for _, m := range s.Messages() {
		recorded = append(recorded, m.ID)
	}
	assert.Equal(t, recorded, sent)
}

func TestServeWs_RoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws/chat", ServeWs(NewDefaultMatcher(rand.New(rand.NewSource(1))), 0, nil))
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	var ev WSMessage
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, Greeting.Text, decodeMessage(t, ev).Text)

	require.NoError(t, conn.WriteJSON(WSMessage{Event: EventInput, Data: json.RawMessage(`{"text":"xyzzy"}`)}))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.True(t, decodeMessage(t, ev).IsUser)
	require.NoError(t, conn.ReadJSON(&ev))
	assert.True(t, decodeTyping(t, ev))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, DefaultResponses[0].Text, decodeMessage(t, ev).Text)
}
