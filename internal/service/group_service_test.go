package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

func newGroupService(f *fixture) GroupService {
	return NewGroupService(f.groups, f.persons, f.accounts, f.log)
}

// groupFixture builds one group with an OWNER, an ADMIN, a MEMBER and an
// ANALOGUE person, each role backed by its own account.
func groupFixture(t *testing.T, f *fixture) (groupID string, byRole map[domain.MembershipType]struct {
	account *domain.Account
	person  domain.Person
}) {
	t.Helper()
	groupID = f.addGroup(t, "family")
	byRole = map[domain.MembershipType]struct {
		account *domain.Account
		person  domain.Person
	}{}
	for _, role := range []domain.MembershipType{
		domain.MembershipOwner, domain.MembershipAdmin, domain.MembershipMember, domain.MembershipAnalogue,
	} {
		var account *domain.Account
		accountID := ""
		if role != domain.MembershipAnalogue {
			account = f.addAccount(t, string(role)+"@example.com")
			accountID = account.AccountID
		}
		person := f.addPerson(t, accountID, groupID, string(role), role)
		byRole[role] = struct {
			account *domain.Account
			person  domain.Person
		}{account, person}
	}
	return groupID, byRole
}

func TestCheckPermissionOrdinal(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)

	group, err := f.groups.GetGroup(context.Background(), groupID)
	require.NoError(t, err)

	owner := byRole[domain.MembershipOwner].person
	member := byRole[domain.MembershipMember].person
	analogue := byRole[domain.MembershipAnalogue].person

	assert.True(t, svc.CheckPermission(group, owner.PersonID, domain.MembershipAdmin))
	assert.True(t, svc.CheckPermission(group, analogue.PersonID, domain.MembershipMember))
	assert.False(t, svc.CheckPermission(group, member.PersonID, domain.MembershipAdmin))
	assert.False(t, svc.CheckPermission(group, "stranger", domain.MembershipMember))
}

func TestAddMemberRequiresAdmin(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)
	ctx := context.Background()

	req := AddMemberRequest{Name: "Newcomer", MemberType: "MEMBER"}

	_, err := svc.AddMember(ctx, byRole[domain.MembershipMember].account.AccountID, groupID, req)
	assert.ErrorIs(t, err, apperr.ErrInsufficient)

	added, err := svc.AddMember(ctx, byRole[domain.MembershipAdmin].account.AccountID, groupID, req)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipMember, added.MemberType)
	assert.False(t, added.IsDigital())
}

func TestAddMemberRejectsSecondOwnerAndAnalogue(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)
	ctx := context.Background()
	admin := byRole[domain.MembershipAdmin].account.AccountID

	_, err := svc.AddMember(ctx, admin, groupID, AddMemberRequest{Name: "Usurper", MemberType: "OWNER"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.AddMember(ctx, admin, groupID, AddMemberRequest{Name: "Second Center", MemberType: "ANALOGUE"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestChangeMemberRejectsSecondAnalogue(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)
	ctx := context.Background()
	admin := byRole[domain.MembershipAdmin].account.AccountID

	// The fixture group already holds an ANALOGUE person; promoting another
	// member must fail the same way adding a second one does.
	member := byRole[domain.MembershipMember].person
	_, err := svc.ChangeMember(ctx, admin, groupID, member.PersonID, ChangeMemberRequest{MemberType: "ANALOGUE"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Re-stating the role on the analogue member itself stays allowed.
	analogue := byRole[domain.MembershipAnalogue].person
	changed, err := svc.ChangeMember(ctx, admin, groupID, analogue.PersonID,
		ChangeMemberRequest{Name: "Granny", MemberType: "ANALOGUE"})
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipAnalogue, changed.MemberType)

	group, err := f.groups.GetGroup(ctx, groupID)
	require.NoError(t, err)
	analogues := 0
	for _, m := range group.Members {
		if m.MemberType == domain.MembershipAnalogue {
			analogues++
		}
	}
	assert.Equal(t, 1, analogues)
}

func TestAddMemberAnalogueCannotBeDigital(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	ctx := context.Background()

	groupID := f.addGroup(t, "household")
	admin := f.addAccount(t, "admin@example.com")
	f.addPerson(t, admin.AccountID, groupID, "Admin", domain.MembershipAdmin)
	linked := f.addAccount(t, "granny@example.com")

	_, err := svc.AddMember(ctx, admin.AccountID, groupID,
		AddMemberRequest{Name: "Granny", MemberType: "ANALOGUE", Email: linked.Email})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	added, err := svc.AddMember(ctx, admin.AccountID, groupID,
		AddMemberRequest{Name: "Granny", MemberType: "ANALOGUE"})
	require.NoError(t, err)
	assert.False(t, added.IsDigital())
}

func TestChangeMember(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)
	ctx := context.Background()

	admin := byRole[domain.MembershipAdmin].account.AccountID
	member := byRole[domain.MembershipMember].person

	changed, err := svc.ChangeMember(ctx, admin, groupID, member.PersonID, ChangeMemberRequest{MemberType: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipAdmin, changed.MemberType)

	// MEMBER actors cannot mutate the member list at all.
	_, err = svc.ChangeMember(ctx, byRole[domain.MembershipMember].account.AccountID, groupID, member.PersonID,
		ChangeMemberRequest{Name: "Self"})
	assert.ErrorIs(t, err, apperr.ErrInsufficient)
}

func TestOwnerIsImmutable(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)
	ctx := context.Background()

	owner := byRole[domain.MembershipOwner].person
	for _, actor := range []string{
		byRole[domain.MembershipAdmin].account.AccountID,
		byRole[domain.MembershipOwner].account.AccountID,
	} {
		_, err := svc.ChangeMember(ctx, actor, groupID, owner.PersonID, ChangeMemberRequest{Name: "Renamed"})
		assert.ErrorIs(t, err, apperr.ErrOwnerImmutable)

		err = svc.RemoveMember(ctx, actor, groupID, owner.PersonID)
		assert.ErrorIs(t, err, apperr.ErrOwnerImmutable)
	}

	// Promoting someone else to OWNER is rejected as well.
	member := byRole[domain.MembershipMember].person
	_, err := svc.ChangeMember(ctx, byRole[domain.MembershipAdmin].account.AccountID, groupID, member.PersonID,
		ChangeMemberRequest{MemberType: "OWNER"})
	assert.ErrorIs(t, err, apperr.ErrOwnerImmutable)
}

func TestRemoveMember(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)
	ctx := context.Background()

	member := byRole[domain.MembershipMember].person
	require.NoError(t, svc.RemoveMember(ctx, byRole[domain.MembershipAdmin].account.AccountID, groupID, member.PersonID))

	group, err := f.groups.GetGroup(ctx, groupID)
	require.NoError(t, err)
	_, found := group.FindMember(member.PersonID)
	assert.False(t, found)
}

func TestCreateGroupMakesCallerOwner(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	account := f.addAccount(t, "a@example.com")

	group, err := svc.CreateGroup(context.Background(), account.AccountID, "new group", "Alice")
	require.NoError(t, err)

	loaded, err := f.groups.GetGroup(context.Background(), group.GroupID)
	require.NoError(t, err)
	owner, ok := loaded.Owner()
	require.True(t, ok)
	assert.Equal(t, "Alice", owner.Name)
	assert.Equal(t, account.AccountID, owner.AccountID.String)
}

func TestGetGroupMemberOnly(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)
	outsider := f.addAccount(t, "outsider@example.com")

	_, err := svc.GetGroup(context.Background(), outsider.AccountID, groupID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	group, err := svc.GetGroup(context.Background(), byRole[domain.MembershipMember].account.AccountID, groupID)
	require.NoError(t, err)
	assert.Len(t, group.Members, 4)
}

func TestExportMembers(t *testing.T) {
	f := newFixture()
	svc := newGroupService(f)
	groupID, byRole := groupFixture(t, f)
	ctx := context.Background()

	_, err := svc.ExportMembers(ctx, byRole[domain.MembershipMember].account.AccountID, groupID)
	assert.ErrorIs(t, err, apperr.ErrInsufficient)

	data, err := svc.ExportMembers(ctx, byRole[domain.MembershipAdmin].account.AccountID, groupID)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	header, err := workbook.GetCellValue("Members", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", header)

	rows, err := workbook.GetRows("Members")
	require.NoError(t, err)
	assert.Len(t, rows, 5) // header + 4 members
}
