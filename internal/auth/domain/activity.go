package domain

import "time"

// LoginRecord is one connection-history entry, written on every successful
// login (password or federated).
type LoginRecord struct {
	ID        string    `json:"id"`
	AccountID string    `json:"userId"`
	LoginTime time.Time `json:"loginTime"`
	IPAddress string    `json:"ipAddress"`
	Device    string    `json:"device"`
}

// NotificationEventFull marks an "event reached capacity" notification.
const NotificationEventFull = "event_full"

// Notification is an in-app message for an account.
type Notification struct {
	ID        string
	AccountID string
	EventID   string
	Message   string
	Type      string
	Read      bool
	CreatedAt time.Time
}

// Event is the slice of the event record the account service needs: enough
// to detect "full" events owned by a logging-in user.
type Event struct {
	ID              string
	OwnerID         string
	Title           string
	Participants    int
	MaxParticipants int
}

// Full reports whether the event has reached its participant cap.
func (e Event) Full() bool {
	return e.MaxParticipants > 0 && e.Participants >= e.MaxParticipants
}
