package domain

import (
	"database/sql"
	"time"
)

// NfcInfoType is the one-tap action bound to a physical NFC tag.
type NfcInfoType string

const (
	NfcTypeUndefined  NfcInfoType = "UNDEFINED"
	NfcTypeOpenAlbum  NfcInfoType = "OPEN_ALBUM"
	NfcTypeCallPerson NfcInfoType = "CALL_PERSON"
)

// Valid reports whether t is a known tag action type.
func (t NfcInfoType) Valid() bool {
	switch t {
	case NfcTypeUndefined, NfcTypeOpenAlbum, NfcTypeCallPerson:
		return true
	}
	return false
}

// NfcInfo links a physical NFC tag to an album or a person for one-tap actions.
// NfcRef is the tag hardware reference and is unique platform-wide.
type NfcInfo struct {
	NfcID          string         `db:"nfc_id"`
	Name           string         `db:"name"`
	NfcRef         string         `db:"nfc_ref"`
	OwnerID        string         `db:"owner_id"`   // person the tag belongs to
	CreatorID      string         `db:"creator_id"` // person who registered the tag
	Type           NfcInfoType    `db:"type"`
	LinkedAlbumID  sql.NullString `db:"linked_album_id"`
	LinkedPersonID sql.NullString `db:"linked_person_id"`
	CreatedAt      time.Time      `db:"created_at"`
}

// WithName returns a copy with the display name replaced.
func (n NfcInfo) WithName(name string) NfcInfo {
	n.Name = name
	return n
}

// WithLinkedAlbum returns a copy linking the tag to an album.
func (n NfcInfo) WithLinkedAlbum(albumID string) NfcInfo {
	n.Type = NfcTypeOpenAlbum
	n.LinkedAlbumID = sql.NullString{String: albumID, Valid: true}
	n.LinkedPersonID = sql.NullString{}
	return n
}

// WithLinkedPerson returns a copy linking the tag to a person to call.
func (n NfcInfo) WithLinkedPerson(personID string) NfcInfo {
	n.Type = NfcTypeCallPerson
	n.LinkedPersonID = sql.NullString{String: personID, Valid: true}
	n.LinkedAlbumID = sql.NullString{}
	return n
}
