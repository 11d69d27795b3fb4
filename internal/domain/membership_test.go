package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipTypeAtLeast(t *testing.T) {
	assert.True(t, MembershipOwner.AtLeast(MembershipAdmin))
	assert.True(t, MembershipOwner.AtLeast(MembershipOwner))
	assert.True(t, MembershipAdmin.AtLeast(MembershipMember))
	assert.True(t, MembershipAnalogue.AtLeast(MembershipMember))

	assert.False(t, MembershipMember.AtLeast(MembershipAdmin))
	assert.False(t, MembershipAdmin.AtLeast(MembershipOwner))
	assert.False(t, MembershipAnalogue.AtLeast(MembershipAdmin))
}

func TestParseMembershipType(t *testing.T) {
	m, ok := ParseMembershipType("ADMIN")
	require.True(t, ok)
	assert.Equal(t, MembershipAdmin, m)

	_, ok = ParseMembershipType("SUPERUSER")
	assert.False(t, ok)

	_, ok = ParseMembershipType("")
	assert.False(t, ok)
}
