package domain

import (
	"database/sql"
	"time"
)

// Multimedia is a stored media file, optionally sent to a group peer and
// optionally contained in an Album. File bytes live in the file store under
// FileKey; the database row carries metadata only.
type Multimedia struct {
	SendableBase
	OwnerID     string         `db:"owner_id"`
	Filename    string         `db:"filename"`
	ContentType string         `db:"content_type"`
	Size        int64          `db:"size"`
	FileKey     string         `db:"file_key"`
	AlbumID     sql.NullString `db:"album_id"`
}

// WithSentAt returns a copy with the sent timestamp stamped.
func (m Multimedia) WithSentAt(t time.Time) Multimedia {
	m.SentAt = &t
	return m
}

// WithRetrievedAt returns a copy with the retrieved timestamp stamped.
func (m Multimedia) WithRetrievedAt(t time.Time) Multimedia {
	m.RetrievedAt = &t
	return m
}

// InAlbum reports whether the multimedia belongs to the given album.
func (m Multimedia) InAlbum(albumID string) bool {
	return m.AlbumID.Valid && m.AlbumID.String == albumID
}
