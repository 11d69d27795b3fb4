package domain

import "time"

// CallType distinguishes video from audio calls.
type CallType string

const (
	CallTypeVideo CallType = "VIDEO"
	CallTypeAudio CallType = "AUDIO"
)

// Valid reports whether t is a known call type.
func (t CallType) Valid() bool {
	return t == CallTypeVideo || t == CallTypeAudio
}

// CallState is the lifecycle stage of a Call.
//
//	CREATED → CALLING → {ACCEPTED, DENIED, CANCELLED, TIMEOUT} → FINISHED
type CallState string

const (
	CallStateCreated   CallState = "CREATED"
	CallStateCalling   CallState = "CALLING"
	CallStateAccepted  CallState = "ACCEPTED"
	CallStateDenied    CallState = "DENIED"
	CallStateCancelled CallState = "CANCELLED"
	CallStateFinished  CallState = "FINISHED"
	CallStateTimeout   CallState = "TIMEOUT"
)

// Terminal reports whether no further transition is allowed from s.
func (s CallState) Terminal() bool {
	switch s {
	case CallStateDenied, CallStateCancelled, CallStateFinished, CallStateTimeout:
		return true
	}
	return false
}

// CanTransitionTo reports whether the one-directional state machine allows
// moving from s to next.
func (s CallState) CanTransitionTo(next CallState) bool {
	switch s {
	case CallStateCreated, CallStateCalling:
		switch next {
		case CallStateAccepted, CallStateDenied, CallStateCancelled, CallStateTimeout:
			return true
		case CallStateCalling:
			return s == CallStateCreated
		}
	case CallStateAccepted:
		return next == CallStateFinished || next == CallStateTimeout
	}
	return false
}

// Call is a sendable video/audio call with per-party room access tokens.
type Call struct {
	SendableBase
	CallType      CallType   `db:"call_type"`
	CallState     CallState  `db:"call_state"`
	StartedAt     *time.Time `db:"started_at"`
	FinishedAt    *time.Time `db:"finished_at"`
	SenderToken   string     `db:"sender_token"`
	ReceiverToken string     `db:"receiver_token"`
}

// WithSentAt returns a copy with the sent timestamp stamped.
func (c Call) WithSentAt(t time.Time) Call {
	c.SentAt = &t
	return c
}

// WithRetrievedAt returns a copy with the retrieved timestamp stamped.
func (c Call) WithRetrievedAt(t time.Time) Call {
	c.RetrievedAt = &t
	return c
}

// WithState returns a copy in the given state.
func (c Call) WithState(s CallState) Call {
	c.CallState = s
	return c
}

// WithStartedAt returns a copy with the start timestamp stamped.
func (c Call) WithStartedAt(t time.Time) Call {
	c.StartedAt = &t
	return c
}

// WithFinishedAt returns a copy with the finish timestamp stamped.
func (c Call) WithFinishedAt(t time.Time) Call {
	c.FinishedAt = &t
	return c
}

// TokenFor returns the room access token for the given party, or "" when the
// person is not a party of the call.
func (c Call) TokenFor(personID string) string {
	switch personID {
	case c.SenderID:
		return c.SenderToken
	case c.ReceiverID:
		return c.ReceiverToken
	}
	return ""
}
