package domain

import "time"

// Message is a text exchange between two group members.
type Message struct {
	SendableBase
	Text string `db:"text"`
}

// WithSentAt returns a copy with the sent timestamp stamped.
func (m Message) WithSentAt(t time.Time) Message {
	m.SentAt = &t
	return m
}

// WithRetrievedAt returns a copy with the retrieved timestamp stamped.
func (m Message) WithRetrievedAt(t time.Time) Message {
	m.RetrievedAt = &t
	return m
}
