package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// MemorySendableRepo is the shared in-memory sendable store. withID assigns a
// generated id to a new entity, since generic code cannot set struct fields.
type MemorySendableRepo[T domain.Sendable[T]] struct {
	mu     sync.RWMutex
	items  map[string]T
	order  []string
	withID func(T, string) T
}

func NewMemorySendableRepo[T domain.Sendable[T]](withID func(T, string) T) *MemorySendableRepo[T] {
	return &MemorySendableRepo[T]{items: map[string]T{}, withID: withID}
}

func (r *MemorySendableRepo[T]) Get(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return item, nil
}

func (r *MemorySendableRepo[T]) find(match func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []T
	// newest first, matching the postgres ORDER BY created_at DESC
	for i := len(r.order) - 1; i >= 0; i-- {
		if item, ok := r.items[r.order[i]]; ok && match(item) {
			out = append(out, item)
		}
	}
	return out
}

func (r *MemorySendableRepo[T]) List(_ context.Context) ([]T, error) {
	return r.find(func(T) bool { return true }), nil
}

func (r *MemorySendableRepo[T]) FindBySender(_ context.Context, senderID string) ([]T, error) {
	return r.find(func(item T) bool { return item.Sender() == senderID }), nil
}

func (r *MemorySendableRepo[T]) FindByReceiver(_ context.Context, receiverID string) ([]T, error) {
	return r.find(func(item T) bool { return item.Receiver() == receiverID }), nil
}

func (r *MemorySendableRepo[T]) FindByParty(_ context.Context, personID string) ([]T, error) {
	return r.find(func(item T) bool {
		return item.Sender() == personID || item.Receiver() == personID
	}), nil
}

func (r *MemorySendableRepo[T]) Create(_ context.Context, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.SendableID() == "" {
		entity = r.withID(entity, uuid.NewString())
	}
	r.items[entity.SendableID()] = entity
	r.order = append(r.order, entity.SendableID())
	return entity, nil
}

func (r *MemorySendableRepo[T]) Update(_ context.Context, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[entity.SendableID()]; !ok {
		var zero T
		return zero, ErrNotFound
	}
	r.items[entity.SendableID()] = entity
	return entity, nil
}

func (r *MemorySendableRepo[T]) delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// --- Messages ---

type MemoryMessagesRepo struct {
	*MemorySendableRepo[domain.Message]
}

func NewMemoryMessagesRepo() *MemoryMessagesRepo {
	return &MemoryMessagesRepo{NewMemorySendableRepo(func(m domain.Message, id string) domain.Message {
		m.ID = id
		return m
	})}
}

var _ MessagesRepository = (*MemoryMessagesRepo)(nil)

// --- Calls ---

type MemoryCallsRepo struct {
	*MemorySendableRepo[domain.Call]
}

func NewMemoryCallsRepo() *MemoryCallsRepo {
	return &MemoryCallsRepo{NewMemorySendableRepo(func(c domain.Call, id string) domain.Call {
		c.ID = id
		return c
	})}
}

var _ CallsRepository = (*MemoryCallsRepo)(nil)

func (r *MemoryCallsRepo) CountCallsByState(ctx context.Context) (map[domain.CallState]int, error) {
	calls, _ := r.List(ctx)
	counts := make(map[domain.CallState]int)
	for _, c := range calls {
		counts[c.CallState]++
	}
	return counts, nil
}

// --- Multimedia ---

type MemoryMultimediaRepo struct {
	*MemorySendableRepo[domain.Multimedia]
}

func NewMemoryMultimediaRepo() *MemoryMultimediaRepo {
	return &MemoryMultimediaRepo{NewMemorySendableRepo(func(m domain.Multimedia, id string) domain.Multimedia {
		m.ID = id
		return m
	})}
}

var _ MultimediaRepository = (*MemoryMultimediaRepo)(nil)

func (r *MemoryMultimediaRepo) FindByOwner(_ context.Context, ownerID string) ([]domain.Multimedia, error) {
	return r.find(func(m domain.Multimedia) bool { return m.OwnerID == ownerID }), nil
}

func (r *MemoryMultimediaRepo) FindByAlbum(_ context.Context, albumID string) ([]domain.Multimedia, error) {
	return r.find(func(m domain.Multimedia) bool { return m.InAlbum(albumID) }), nil
}

func (r *MemoryMultimediaRepo) Delete(_ context.Context, id string) error {
	return r.delete(id)
}

// --- Album shares ---

type MemoryAlbumSharesRepo struct {
	*MemorySendableRepo[domain.AlbumShare]
}

func NewMemoryAlbumSharesRepo() *MemoryAlbumSharesRepo {
	return &MemoryAlbumSharesRepo{NewMemorySendableRepo(func(s domain.AlbumShare, id string) domain.AlbumShare {
		s.ID = id
		return s
	})}
}

var _ AlbumSharesRepository = (*MemoryAlbumSharesRepo)(nil)

func (r *MemoryAlbumSharesRepo) FindByAlbum(_ context.Context, albumID string) ([]domain.AlbumShare, error) {
	return r.find(func(s domain.AlbumShare) bool { return s.AlbumID == albumID }), nil
}

// --- Albums ---

type MemoryAlbumsRepo struct {
	mu     sync.RWMutex
	albums map[string]domain.Album
	shares *MemoryAlbumSharesRepo
}

func NewMemoryAlbumsRepo(shares *MemoryAlbumSharesRepo) *MemoryAlbumsRepo {
	return &MemoryAlbumsRepo{albums: map[string]domain.Album{}, shares: shares}
}

var _ AlbumsRepository = (*MemoryAlbumsRepo)(nil)

func (r *MemoryAlbumsRepo) GetAlbum(_ context.Context, albumID string) (*domain.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.albums[albumID]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAlbumsRepo) FindAlbumsByOwner(_ context.Context, ownerID string) ([]domain.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Album
	for _, a := range r.albums {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryAlbumsRepo) FindAlbumsSharedWith(ctx context.Context, personID string) ([]domain.Album, error) {
	shares, _ := r.shares.FindByReceiver(ctx, personID)
	seen := map[string]bool{}
	var out []domain.Album
	for _, s := range shares {
		if seen[s.AlbumID] {
			continue
		}
		seen[s.AlbumID] = true
		if a, err := r.GetAlbum(ctx, s.AlbumID); err == nil {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryAlbumsRepo) CreateAlbum(_ context.Context, album *domain.Album) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.albums {
		if a.OwnerID == album.OwnerID && a.Name == album.Name {
			return "", ErrDuplicate
		}
	}
	id := album.AlbumID
	if id == "" {
		id = uuid.NewString()
	}
	a := *album
	a.AlbumID = id
	r.albums[id] = a
	return id, nil
}

func (r *MemoryAlbumsRepo) UpdateAlbum(_ context.Context, album *domain.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.albums[album.AlbumID]; !ok {
		return ErrNotFound
	}
	r.albums[album.AlbumID] = *album
	return nil
}

func (r *MemoryAlbumsRepo) DeleteAlbum(_ context.Context, albumID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.albums[albumID]; !ok {
		return ErrNotFound
	}
	delete(r.albums, albumID)
	return nil
}

// --- NFC ---

type MemoryNfcRepo struct {
	mu   sync.RWMutex
	nfcs map[string]domain.NfcInfo
}

func NewMemoryNfcRepo() *MemoryNfcRepo {
	return &MemoryNfcRepo{nfcs: map[string]domain.NfcInfo{}}
}

var _ NfcRepository = (*MemoryNfcRepo)(nil)

func (r *MemoryNfcRepo) GetNfc(_ context.Context, nfcID string) (*domain.NfcInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nfcs[nfcID]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (r *MemoryNfcRepo) GetNfcByRef(_ context.Context, nfcRef string) (*domain.NfcInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.nfcs {
		if n.NfcRef == nfcRef {
			n := n
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryNfcRepo) findNfcs(match func(domain.NfcInfo) bool) []domain.NfcInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.NfcInfo
	for _, n := range r.nfcs {
		if match(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *MemoryNfcRepo) FindNfcsByOwner(_ context.Context, ownerID string) ([]domain.NfcInfo, error) {
	return r.findNfcs(func(n domain.NfcInfo) bool { return n.OwnerID == ownerID }), nil
}

func (r *MemoryNfcRepo) FindNfcsByCreator(_ context.Context, creatorID string) ([]domain.NfcInfo, error) {
	return r.findNfcs(func(n domain.NfcInfo) bool { return n.CreatorID == creatorID }), nil
}

func (r *MemoryNfcRepo) CreateNfc(_ context.Context, nfc *domain.NfcInfo) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nfcs {
		if n.NfcRef == nfc.NfcRef {
			return "", ErrDuplicate
		}
	}
	id := nfc.NfcID
	if id == "" {
		id = uuid.NewString()
	}
	n := *nfc
	n.NfcID = id
	r.nfcs[id] = n
	return id, nil
}

func (r *MemoryNfcRepo) UpdateNfc(_ context.Context, nfc *domain.NfcInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nfcs[nfc.NfcID]; !ok {
		return ErrNotFound
	}
	r.nfcs[nfc.NfcID] = *nfc
	return nil
}

func (r *MemoryNfcRepo) DeleteNfc(_ context.Context, nfcID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nfcs[nfcID]; !ok {
		return ErrNotFound
	}
	delete(r.nfcs, nfcID)
	return nil
}
