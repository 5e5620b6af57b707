package oracle

import (
	"context"
	"strings"
	"sync"
)

// Message is one transcript entry.
type Message struct {
	Text   string `json:"text"`
	IsUser bool   `json:"is_user"`
}

// Session is an in-memory conversation with the oracle.
type Session struct {
	oracle *Oracle

	mu       sync.Mutex
	messages []Message
}

// NewSession starts a transcript with the welcome message.
func NewSession(o *Oracle) *Session {
	return &Session{
		oracle:   o,
		messages: []Message{{Text: WelcomeMessage}},
	}
}

// Ask records query, waits for the reply and records it.
// Blank queries are rejected without touching the transcript.
func (s *Session) Ask(ctx context.Context, query string) (string, error) {
	if isBlank(query) {
		return "", ErrEmptyQuery
	}
	query = strings.TrimSpace(query)

	s.append(Message{Text: query, IsUser: true})

	reply, err := s.oracle.Ask(ctx, query)
	if err != nil {
		return "", err
	}

	s.append(Message{Text: reply})
	return reply, nil
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) append(m Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
