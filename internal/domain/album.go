package domain

import "time"

// Album is an ownership-scoped media container. Album names are unique per owner.
type Album struct {
	AlbumID   string    `db:"album_id"`
	Name      string    `db:"name"`
	OwnerID   string    `db:"owner_id"` // person id
	CreatedAt time.Time `db:"created_at"`
}

// WithName returns a copy with the album renamed.
func (a Album) WithName(name string) Album {
	a.Name = name
	return a
}

// AlbumShare grants a group peer access to an album. It follows the sendable
// contract so shares can be marked sent/retrieved like any other exchange.
type AlbumShare struct {
	SendableBase
	AlbumID string `db:"album_id"`
}

// WithSentAt returns a copy with the sent timestamp stamped.
func (s AlbumShare) WithSentAt(t time.Time) AlbumShare {
	s.SentAt = &t
	return s
}

// WithRetrievedAt returns a copy with the retrieved timestamp stamped.
func (s AlbumShare) WithRetrievedAt(t time.Time) AlbumShare {
	s.RetrievedAt = &t
	return s
}
