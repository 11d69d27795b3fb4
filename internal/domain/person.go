package domain

import "database/sql"

// Person is a named group member with a role. Digital persons are backed by
// an Account; an ANALOGUE person represents a participant without the app,
// managed by the other members.
type Person struct {
	PersonID   string         `db:"person_id"`
	AccountID  sql.NullString `db:"account_id"` // NULL for ANALOGUE persons
	Name       string         `db:"name"`       // unique per group
	GroupID    string         `db:"group_id"`
	MemberType MembershipType `db:"member_type"`
	AvatarKey  sql.NullString `db:"avatar_key"` // stored file key, NULL until uploaded
}

// IsDigital reports whether the person is backed by an Account.
func (p Person) IsDigital() bool {
	return p.AccountID.Valid
}

// WithName returns a copy with the display name replaced.
func (p Person) WithName(name string) Person {
	p.Name = name
	return p
}

// WithMemberType returns a copy with the role replaced.
func (p Person) WithMemberType(t MembershipType) Person {
	p.MemberType = t
	return p
}

// WithAvatarKey returns a copy pointing at a stored avatar file.
func (p Person) WithAvatarKey(key string) Person {
	p.AvatarKey = sql.NullString{String: key, Valid: key != ""}
	return p
}
