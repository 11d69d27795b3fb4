package domain

import "time"

// SendableBase is the common shape of directed, timestamped exchanges between
// two Persons of the same Group (Message, Multimedia, Call, AlbumShare).
type SendableBase struct {
	ID          string     `db:"id"`
	SenderID    string     `db:"sender_id"`
	ReceiverID  string     `db:"receiver_id"`
	CreatedAt   time.Time  `db:"created_at"`
	SentAt      *time.Time `db:"sent_at"`
	RetrievedAt *time.Time `db:"retrieved_at"`
}

// SendableID returns the entity id.
func (s SendableBase) SendableID() string { return s.ID }

// Sender returns the sending person id.
func (s SendableBase) Sender() string { return s.SenderID }

// Receiver returns the receiving person id.
func (s SendableBase) Receiver() string { return s.ReceiverID }

// IsSent reports whether the sendable has been delivered to the receiver's device.
func (s SendableBase) IsSent() bool { return s.SentAt != nil }

// IsRetrieved reports whether the receiver has opened the sendable.
func (s SendableBase) IsRetrieved() bool { return s.RetrievedAt != nil }

// Sendable is implemented by every sendable entity. The type parameter ties
// the copy-on-write setters to the concrete type so generic helpers can
// persist modified copies without reflection.
type Sendable[T any] interface {
	SendableID() string
	Sender() string
	Receiver() string
	WithSentAt(time.Time) T
	WithRetrievedAt(time.Time) T
}
