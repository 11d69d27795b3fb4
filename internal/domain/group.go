package domain

import "time"

// Group is the sharing and authorization boundary containing Persons.
type Group struct {
	GroupID   string    `db:"group_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`

	// Members is populated by the repository when the group is loaded.
	Members []Person `db:"-"`
}

// FindMember returns the member with the given person id, or false.
func (g Group) FindMember(personID string) (Person, bool) {
	for _, m := range g.Members {
		if m.PersonID == personID {
			return m, true
		}
	}
	return Person{}, false
}

// MemberOfAccount returns the member backed by the given account, or false.
func (g Group) MemberOfAccount(accountID string) (Person, bool) {
	for _, m := range g.Members {
		if m.AccountID.Valid && m.AccountID.String == accountID {
			return m, true
		}
	}
	return Person{}, false
}

// Owner returns the first member holding OWNER, or false when the group has
// none (should not happen for groups created through the service layer).
func (g Group) Owner() (Person, bool) {
	for _, m := range g.Members {
		if m.MemberType == MembershipOwner {
			return m, true
		}
	}
	return Person{}, false
}

// CenterPerson returns the ANALOGUE member, or false. A group holds at most one.
func (g Group) CenterPerson() (Person, bool) {
	for _, m := range g.Members {
		if m.MemberType == MembershipAnalogue {
			return m, true
		}
	}
	return Person{}, false
}
