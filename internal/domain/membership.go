package domain

// MembershipType is the ordered privilege level of a Person inside a Group.
// OWNER > ADMIN > ANALOGUE > MEMBER.
type MembershipType string

const (
	MembershipOwner    MembershipType = "OWNER"
	MembershipAdmin    MembershipType = "ADMIN"
	MembershipAnalogue MembershipType = "ANALOGUE"
	MembershipMember   MembershipType = "MEMBER"
)

// rank maps each role to its ordinal. Unknown roles rank below MEMBER.
func (m MembershipType) rank() int {
	switch m {
	case MembershipOwner:
		return 4
	case MembershipAdmin:
		return 3
	case MembershipAnalogue:
		return 2
	case MembershipMember:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether m grants at least the privilege of required.
func (m MembershipType) AtLeast(required MembershipType) bool {
	return m.rank() >= required.rank()
}

// Valid reports whether m is one of the known roles.
func (m MembershipType) Valid() bool {
	return m.rank() > 0
}

// ParseMembershipType returns the role for s, or false when unknown.
func ParseMembershipType(s string) (MembershipType, bool) {
	m := MembershipType(s)
	if !m.Valid() {
		return "", false
	}
	return m, true
}
