package notify

import "time"

// Inbox is an ordered, unbounded list of notifications, oldest first.
// It is not safe for concurrent use.
type Inbox struct {
	items  []Notification
	nextID int64
	now    func() time.Time
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{now: time.Now}
}

// Push appends n, assigning its ID and CreatedAt, and returns the stored copy.
func (b *Inbox) Push(n Notification) Notification {
	b.nextID++
	n.ID = b.nextID
	n.CreatedAt = b.now()
	b.items = append(b.items, n)
	return n
}

// List returns a copy of the notifications.
func (b *Inbox) List() []Notification {
	out := make([]Notification, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Inbox) Len() int { return len(b.items) }

// DismissAt removes the notification at position i. Out-of-range is a no-op.
func (b *Inbox) DismissAt(i int) bool {
	if i < 0 || i >= len(b.items) {
		return false
	}
	b.items = append(b.items[:i:i], b.items[i+1:]...)
	return true
}

// Dismiss removes the notification with the given ID.
func (b *Inbox) Dismiss(id int64) bool {
	for i, n := range b.items {
		if n.ID == id {
			return b.DismissAt(i)
		}
	}
	return false
}
