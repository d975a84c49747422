package action

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Inbox buffers toasts for one session until the portal polls them. When
// full the oldest toast is dropped.
type Inbox struct {
	mu    sync.Mutex
	items []Toast
	limit int
	now   func() time.Time
}

func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = 1
	}
	return &Inbox{limit: limit, now: time.Now}
}

func (i *Inbox) Success(message string) { i.Push(LevelSuccess, message) }
func (i *Inbox) Error(message string)   { i.Push(LevelError, message) }
func (i *Inbox) Info(message string)    { i.Push(LevelInfo, message) }

func (i *Inbox) Push(level Level, message string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.items) == i.limit {
		i.items = append(i.items[:0:0], i.items[1:]...)
	}
	i.items = append(i.items, Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: i.now(),
	})
}

// Drain returns the buffered toasts oldest first and empties the inbox.
func (i *Inbox) Drain() []Toast {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := i.items
	i.items = nil
	if out == nil {
		return []Toast{}
	}
	return out
}

func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.items)
}
