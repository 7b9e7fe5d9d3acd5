package domain

import (
	"context"
	"sync"
	"time"
)

type Speaker string

const (
	SpeakerUser      Speaker = "User"
	SpeakerAssistant Speaker = "Assistant"
)

// ChatTurn is one message in the transcript. Text may contain markdown. Turns are immutable once appended.
type ChatTurn struct {
	ID        string
	Speaker   Speaker
	Text      string
	IsError   bool
	CreatedAt time.Time
}

// ChatRequest is what the Conversation Service receives for every turn.
type ChatRequest struct {
	Disease   string
	Message   string
	ImageData string
	Language  string
}

type ConversationService interface {
	// Reply returns the assistant's text, a *ServiceError if the service reported one, or any other error if the
	// request itself failed.
	Reply(ctx context.Context, request ChatRequest) (string, error)
}

// Transcript is the append-only conversation of a single session. Its length isn't bounded.
type Transcript struct {
	mutex sync.Mutex
	turns []ChatTurn
}

func (t *Transcript) append(turn ChatTurn) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.turns = append(t.turns, turn)
}

// Turns returns a copy of the transcript in append order.
func (t *Transcript) Turns() []ChatTurn {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	result := make([]ChatTurn, len(t.turns))
	copy(result, t.turns)
	return result
}

func (t *Transcript) Len() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.turns)
}
