package chatbot

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sdc-club/backend/internal/models"
)

// Outgoing session events.
const (
	EventMessage = "message"
	EventTyping  = "typing"
)

// Incoming session events.
const (
	EventInput  = "message"
	EventOption = "option"
)

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// TypingState is the payload of a typing event.
type TypingState struct {
	Typing bool `json:"typing"`
}

// Session is one visitor's chat: it owns the transcript and the pending
// replies, and emits events on send until its context is done.
type Session struct {
	ctx     context.Context
	matcher *Matcher
	delay   time.Duration
	send    chan<- WSMessage

	// emitMu orders state changes with their events so the last typing
	// frame sent always matches pending.
	emitMu   sync.Mutex
	mu       sync.Mutex
	messages []models.Message
	pending  int
}

// NewSession creates a session that writes events to send. Replies are delayed
// by delay; cancelling ctx drops any reply that has not been sent yet.
func NewSession(ctx context.Context, matcher *Matcher, delay time.Duration, send chan<- WSMessage) *Session {
	return &Session{ctx: ctx, matcher: matcher, delay: delay, send: send}
}

// Open sends the greeting.
func (s *Session) Open() {
	s.appendAndEmit(newMessage(Greeting.Text, false, Greeting.Options))
}

// Handle processes one incoming frame.
func (s *Session) Handle(msg WSMessage) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		return
	}
	switch msg.Event {
	case EventInput:
		s.Ask(payload.Text)
	case EventOption:
		s.Ask(CleanOption(payload.Text))
	}
}

// Ask records the user's text and schedules the bot reply. Blank text is ignored.
func (s *Session) Ask(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.emitMu.Lock()
	user := newMessage(text, true, nil)
	s.mu.Lock()
	s.messages = append(s.messages, user)
	s.pending++
	s.mu.Unlock()
	s.emit(EventMessage, user)
	s.emit(EventTyping, TypingState{Typing: true})
	s.emitMu.Unlock()

	if s.delay <= 0 {
		s.reply(text)
		return
	}
	go func() {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			s.reply(text)
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) reply(text string) {
	resp := s.matcher.Respond(text)
	bot := newMessage(resp.Text, false, resp.Options)

	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	s.mu.Lock()
	s.messages = append(s.messages, bot)
	s.pending--
	typing := s.pending > 0
	s.mu.Unlock()
	s.emit(EventMessage, bot)
	s.emit(EventTyping, TypingState{Typing: typing})
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Typing reports whether a reply is still pending.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

func (s *Session) appendAndEmit(m models.Message) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	s.emit(EventMessage, m)
}

func (s *Session) emit(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case s.send <- WSMessage{Event: event, Data: data}:
	case <-s.ctx.Done():
	}
}

func newMessage(text string, isUser bool, options []string) models.Message {
	return models.Message{ID: uuid.NewString(), Text: text, IsUser: isUser, Options: options}
}
