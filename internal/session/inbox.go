package session

import (
	"sync"

	"github.com/spec-kit/ticket-dashboard/internal/table"
)

// inboxCapacity bounds undrained notifications; the oldest are dropped.
const inboxCapacity = 100

// Inbox collects engine notifications until the client drains them.
type Inbox struct {
	mu            sync.Mutex
	notifications []table.Notification
}

// Notify implements table.Notifier.
func (i *Inbox) Notify(n table.Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.notifications = append(i.notifications, n)
	if overflow := len(i.notifications) - inboxCapacity; overflow > 0 {
		i.notifications = append([]table.Notification(nil), i.notifications[overflow:]...)
	}
}

// Drain returns pending notifications oldest first and empties the inbox.
func (i *Inbox) Drain() []table.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.notifications
	i.notifications = nil
	if out == nil {
		out = []table.Notification{}
	}
	return out
}
