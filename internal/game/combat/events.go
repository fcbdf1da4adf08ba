package combat

import "sync"

// NotificationType classifies outbound combat notifications.
type NotificationType int

const (
	// NoticeStarted announces a new combat instance.
	NoticeStarted NotificationType = iota
	// NoticeRound announces a completed round with its events.
	NoticeRound
	// NoticeDeath announces a participant death.
	NoticeDeath
	// NoticeTerminated announces the end of a combat instance.
	NoticeTerminated
)

// Notification is an outbound combat event, published at well-defined points
// in round execution (combat start, end of round, on death, on termination)
// and consumed asynchronously by observers: chat, announcements, rewards.
type Notification struct {
	Type     NotificationType
	CombatID string
	RoomID   string
	Round    int64
	// Reason is set for NoticeTerminated (e.g. "room-mismatch").
	Reason string
	// ActorID/VictimID are set for NoticeDeath.
	ActorID  string
	VictimID string
	// Participants lists every member ID for NoticeTerminated, so observers
	// such as the vitals persister can act on the whole roster.
	Participants []string
	// Events carries the round's resolved events for NoticeRound.
	Events []RoundEvent
}

// Bus fans combat notifications out to subscribers.
// All methods are safe for concurrent use.
type Bus struct {
	mu          sync.Mutex
	subscribers map[chan<- Notification]struct{}
}

// NewBus creates an empty notification Bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[chan<- Notification]struct{})}
}

// Subscribe registers ch to receive every published Notification.
// If ch is full at publish time, that notification is dropped for ch
// (non-blocking delivery).
//
// Precondition: ch must not be nil.
func (b *Bus) Subscribe(ch chan<- Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[ch] = struct{}{}
}

// Unsubscribe removes ch from the subscriber list.
func (b *Bus) Unsubscribe(ch chan<- Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, ch)
}

// Publish delivers n to all subscribers without blocking.
func (b *Bus) Publish(n Notification) {
	b.mu.Lock()
	subs := make([]chan<- Notification, 0, len(b.subscribers))
	for ch := range b.subscribers {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
		}
	}
}
