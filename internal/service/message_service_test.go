package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

func newMessageService(f *fixture, notifier NotificationService) MessageService {
	return NewMessageService(repository.NewMemoryMessagesRepo(), f.persons, f.accounts, notifier, f.log)
}

// twoPeers creates two account-backed members of one group.
func twoPeers(t *testing.T, f *fixture) (domain.Person, domain.Person, *domain.Account, *domain.Account) {
	t.Helper()
	groupID := f.addGroup(t, "family")
	accA := f.addAccount(t, "a@example.com")
	accB := f.addAccount(t, "b@example.com")
	alice := f.addPerson(t, accA.AccountID, groupID, "Alice", domain.MembershipOwner)
	bob := f.addPerson(t, accB.AccountID, groupID, "Bob", domain.MembershipMember)
	return alice, bob, accA, accB
}

func TestCreateMessageSamePerson(t *testing.T) {
	f := newFixture()
	svc := newMessageService(f, &fakeNotifier{})
	alice, _, _, _ := twoPeers(t, f)

	_, err := svc.CreateMessage(context.Background(), alice.PersonID, alice.PersonID, "hi me")
	assert.ErrorIs(t, err, apperr.ErrSamePerson)
}

func TestCreateMessageDifferentGroups(t *testing.T) {
	f := newFixture()
	svc := newMessageService(f, &fakeNotifier{})
	alice, _, _, _ := twoPeers(t, f)

	otherGroup := f.addGroup(t, "other")
	carol := f.addPerson(t, "", otherGroup, "Carol", domain.MembershipOwner)

	_, err := svc.CreateMessage(context.Background(), alice.PersonID, carol.PersonID, "hello")
	assert.ErrorIs(t, err, apperr.ErrNotSameGroup)
}

func TestCreateMessageWithoutPush(t *testing.T) {
	f := newFixture()
	svc := newMessageService(f, &fakeNotifier{ok: false})
	alice, bob, _, _ := twoPeers(t, f)

	msg, err := svc.CreateMessage(context.Background(), alice.PersonID, bob.PersonID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Nil(t, msg.SentAt, "undelivered message must not carry a sent timestamp")
}

func TestCreateMessageStampsSentAtOnPush(t *testing.T) {
	f := newFixture()
	notifier := &fakeNotifier{ok: true}
	svc := newMessageService(f, notifier)
	alice, bob, _, accB := twoPeers(t, f)
	f.withFcmToken(t, accB, "bob-device")

	msg, err := svc.CreateMessage(context.Background(), alice.PersonID, bob.PersonID, "hello")
	require.NoError(t, err)
	assert.NotNil(t, msg.SentAt)
	assert.Equal(t, []string{"bob-device"}, notifier.tokens)
}

func TestMarkAsRetrievedReceiverOnly(t *testing.T) {
	f := newFixture()
	svc := newMessageService(f, &fakeNotifier{})
	alice, bob, _, _ := twoPeers(t, f)
	ctx := context.Background()

	msg, err := svc.CreateMessage(ctx, alice.PersonID, bob.PersonID, "hello")
	require.NoError(t, err)

	_, err = svc.MarkAsRetrieved(ctx, msg.ID, alice.PersonID)
	assert.ErrorIs(t, err, apperr.ErrNotParty)

	read, err := svc.MarkAsRetrieved(ctx, msg.ID, bob.PersonID)
	require.NoError(t, err)
	assert.NotNil(t, read.RetrievedAt)
}

func TestGetMessageScopedToParties(t *testing.T) {
	f := newFixture()
	svc := newMessageService(f, &fakeNotifier{})
	alice, bob, _, _ := twoPeers(t, f)
	carol := f.addPerson(t, "", alice.GroupID, "Carol", domain.MembershipMember)
	ctx := context.Background()

	msg, err := svc.CreateMessage(ctx, alice.PersonID, bob.PersonID, "private")
	require.NoError(t, err)

	_, err = svc.Get(ctx, msg.ID, carol.PersonID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Get(ctx, "no-such-id", alice.PersonID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := svc.Get(ctx, msg.ID, bob.PersonID)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, got.ID)
}

func TestFindMessageFilters(t *testing.T) {
	f := newFixture()
	svc := newMessageService(f, &fakeNotifier{})
	alice, bob, _, _ := twoPeers(t, f)
	ctx := context.Background()

	_, err := svc.CreateMessage(ctx, alice.PersonID, bob.PersonID, "one")
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, bob.PersonID, alice.PersonID, "two")
	require.NoError(t, err)

	sent, err := svc.FindSent(ctx, alice.PersonID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "one", sent[0].Text)

	received, err := svc.FindReceived(ctx, alice.PersonID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "two", received[0].Text)

	all, err := svc.FindAll(ctx, alice.PersonID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
