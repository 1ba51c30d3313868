package productedit

import "sync"

// Notifier shows short operator-facing messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// MessageBuffer collects messages until the caller drains them.
type MessageBuffer struct {
	mu   sync.Mutex
	msgs []Message
}

func (b *MessageBuffer) Success(msg string) { b.add("success", msg) }
func (b *MessageBuffer) Error(msg string)   { b.add("error", msg) }

func (b *MessageBuffer) add(level, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, Message{Level: level, Text: msg})
}

// Drain returns the collected messages and empties the buffer.
func (b *MessageBuffer) Drain() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs := b.msgs
	b.msgs = nil
	if msgs == nil {
		return []Message{}
	}
	return msgs
}
