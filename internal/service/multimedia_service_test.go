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
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/storage"
)

func newMultimediaService(t *testing.T, f *fixture) (MultimediaService, AlbumService) {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	shares := repository.NewMemoryAlbumSharesRepo()
	albums := repository.NewMemoryAlbumsRepo(shares)
	media := NewMultimediaService(repository.NewMemoryMultimediaRepo(), albums, shares,
		f.persons, f.accounts, files, &fakeNotifier{}, f.log)
	albumSvc := NewAlbumService(albums, shares, f.persons, f.accounts, &fakeNotifier{}, f.log)
	return media, albumSvc
}

func TestUploadNeedsDestination(t *testing.T) {
	f := newFixture()
	svc, _ := newMultimediaService(t, f)
	alice, _, _, _ := twoPeers(t, f)

	_, err := svc.Upload(context.Background(), UploadMultimediaRequest{
		OwnerID:  alice.PersonID,
		Filename: "photo.jpg",
		Content:  strings.NewReader("data"),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUploadToPeer(t *testing.T) {
	f := newFixture()
	svc, _ := newMultimediaService(t, f)
	alice, bob, _, _ := twoPeers(t, f)
	ctx := context.Background()

	media, err := svc.Upload(ctx, UploadMultimediaRequest{
		OwnerID:     alice.PersonID,
		ReceiverID:  bob.PersonID,
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len("jpeg bytes")), media.Size)

	got, rc, err := svc.OpenFile(ctx, media.ID, bob.PersonID)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(content))
	assert.Equal(t, "image/jpeg", got.ContentType)
}

func TestUploadToPeerPartyRules(t *testing.T) {
	f := newFixture()
	svc, _ := newMultimediaService(t, f)
	alice, _, _, _ := twoPeers(t, f)
	otherGroup := f.addGroup(t, "other")
	carol := f.addPerson(t, "", otherGroup, "Carol", domain.MembershipOwner)

	_, err := svc.Upload(context.Background(), UploadMultimediaRequest{
		OwnerID:    alice.PersonID,
		ReceiverID: carol.PersonID,
		Filename:   "photo.jpg",
		Content:    strings.NewReader("data"),
	})
	assert.ErrorIs(t, err, apperr.ErrNotSameGroup)
}

func TestUploadToAlbumSharedAccess(t *testing.T) {
	f := newFixture()
	svc, albumSvc := newMultimediaService(t, f)
	alice, bob, _, _ := twoPeers(t, f)
	carol := f.addPerson(t, "", alice.GroupID, "Carol", domain.MembershipMember)
	ctx := context.Background()

	album, err := albumSvc.CreateAlbum(ctx, alice.PersonID, "holidays")
	require.NoError(t, err)

	// Only the album owner uploads into it.
	_, err = svc.Upload(ctx, UploadMultimediaRequest{
		OwnerID: bob.PersonID, AlbumID: album.AlbumID,
		Filename: "photo.jpg", Content: strings.NewReader("data"),
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	media, err := svc.Upload(ctx, UploadMultimediaRequest{
		OwnerID: alice.PersonID, AlbumID: album.AlbumID,
		Filename: "photo.jpg", Content: strings.NewReader("album bytes"),
	})
	require.NoError(t, err)

	// Sharing the album opens the contained media for the receiver.
	_, _, err = svc.OpenFile(ctx, media.ID, bob.PersonID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = albumSvc.ShareAlbum(ctx, album.AlbumID, alice.PersonID, bob.PersonID)
	require.NoError(t, err)

	_, rc, err := svc.OpenFile(ctx, media.ID, bob.PersonID)
	require.NoError(t, err)
	rc.Close()

	items, err := svc.FindByAlbum(ctx, album.AlbumID, bob.PersonID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.FindByAlbum(ctx, album.AlbumID, carol.PersonID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestDeleteMultimediaOwnerOnly(t *testing.T) {
	f := newFixture()
	svc, _ := newMultimediaService(t, f)
	alice, bob, _, _ := twoPeers(t, f)
	ctx := context.Background()

	media, err := svc.Upload(ctx, UploadMultimediaRequest{
		OwnerID: alice.PersonID, ReceiverID: bob.PersonID,
		Filename: "photo.jpg", Content: strings.NewReader("data"),
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, media.ID, bob.PersonID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, media.ID, alice.PersonID))
	_, err = svc.Get(ctx, media.ID, alice.PersonID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
