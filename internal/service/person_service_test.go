package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/storage"
)

func newPersonService(t *testing.T, f *fixture) PersonService {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewPersonService(f.persons, files, f.log)
}

func TestGetPersonVisibility(t *testing.T) {
	f := newFixture()
	svc := newPersonService(t, f)
	alice, _, accA, accB := twoPeers(t, f)
	outsider := f.addAccount(t, "out@example.com")
	ctx := context.Background()

	// Own profile and group peers are visible.
	_, err := svc.GetPerson(ctx, accA.AccountID, alice.PersonID)
	assert.NoError(t, err)
	_, err = svc.GetPerson(ctx, accB.AccountID, alice.PersonID)
	assert.NoError(t, err)

	_, err = svc.GetPerson(ctx, outsider.AccountID, alice.PersonID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUpdateNameOwnPersonOnly(t *testing.T) {
	f := newFixture()
	svc := newPersonService(t, f)
	alice, _, accA, accB := twoPeers(t, f)
	ctx := context.Background()

	_, err := svc.UpdateName(ctx, accB.AccountID, alice.PersonID, "Hijacked")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := svc.UpdateName(ctx, accA.AccountID, alice.PersonID, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)

	_, err = svc.UpdateName(ctx, accA.AccountID, alice.PersonID, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateNameDuplicateInGroup(t *testing.T) {
	f := newFixture()
	svc := newPersonService(t, f)
	alice, bob, accA, _ := twoPeers(t, f)
	_ = bob

	_, err := svc.UpdateName(context.Background(), accA.AccountID, alice.PersonID, "Bob")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAvatarRoundTrip(t *testing.T) {
	f := newFixture()
	svc := newPersonService(t, f)
	alice, _, accA, accB := twoPeers(t, f)
	ctx := context.Background()

	_, err := svc.OpenAvatar(ctx, accA.AccountID, alice.PersonID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UploadAvatar(ctx, accB.AccountID, alice.PersonID, strings.NewReader("png"))
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := svc.UploadAvatar(ctx, accA.AccountID, alice.PersonID, strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.True(t, updated.AvatarKey.Valid)

	// Group peers may fetch the avatar.
	rc, err := svc.OpenAvatar(ctx, accB.AccountID, alice.PersonID)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(content))
}

func TestAnalogueProfileManagedByPeers(t *testing.T) {
	f := newFixture()
	svc := newPersonService(t, f)
	alice, _, accA, _ := twoPeers(t, f)
	analogue := f.addPerson(t, "", alice.GroupID, "Grandma", domain.MembershipAnalogue)
	ctx := context.Background()

	// Visible to the group, but not editable through the profile API since no
	// account backs it.
	_, err := svc.GetPerson(ctx, accA.AccountID, analogue.PersonID)
	assert.NoError(t, err)
	_, err = svc.UpdateName(ctx, accA.AccountID, analogue.PersonID, "Oma")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
