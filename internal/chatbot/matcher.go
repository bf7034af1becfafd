// Package chatbot answers club questions by scanning a fixed intent catalog
// for the first pattern contained in the user's text.
package chatbot

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sdc-club/backend/internal/models"
)

// Matcher picks canned responses for free text. Safe for concurrent use.
type Matcher struct {
	intents  []models.Intent
	defaults []models.ChatResponse

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMatcher creates a matcher over intents and defaults using rnd for response
// selection. A nil rnd uses a time-seeded source. defaults must be non-empty.
func NewMatcher(intents []models.Intent, defaults []models.ChatResponse, rnd *rand.Rand) *Matcher {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Matcher{intents: intents, defaults: defaults, rnd: rnd}
}

// NewDefaultMatcher creates a matcher over the built-in catalog.
func NewDefaultMatcher(rnd *rand.Rand) *Matcher {
	return NewMatcher(Intents, DefaultResponses, rnd)
}

// Respond returns the reply for input. Blank input goes straight to the
// default responses.
func (m *Matcher) Respond(input string) models.ChatResponse {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return m.pick(m.defaults)
	}
	for _, intent := range m.intents {
		for _, pattern := range intent.Patterns {
			if strings.Contains(normalized, pattern) {
				return m.pick(intent.Responses)
			}
		}
	}
	return m.pick(m.defaults)
}

func (m *Matcher) pick(responses []models.ChatResponse) models.ChatResponse {
	m.mu.Lock()
	i := m.rnd.Intn(len(responses))
	m.mu.Unlock()
	return responses[i]
}

var defaultMatcher = NewDefaultMatcher(nil)

// GenerateResponse is the chat widget entry point.
func GenerateResponse(text string) models.ChatResponse {
	return defaultMatcher.Respond(text)
}

var optionMarker = regexp.MustCompile(`^\s*(?:•|\d+\.)\s*`)

// CleanOption strips the list marker ("1." or "•") from a suggested option so
// it can be sent back as user text.
func CleanOption(option string) string {
	return optionMarker.ReplaceAllString(option, "")
}
