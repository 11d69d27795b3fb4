package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresNfcRepository implements NfcRepository.
type PostgresNfcRepository struct {
	db *sql.DB
}

func NewPostgresNfcRepository(db *sql.DB) *PostgresNfcRepository {
	return &PostgresNfcRepository{db: db}
}

var _ NfcRepository = (*PostgresNfcRepository)(nil)

const nfcColumns = `
	nfc_id::text,
	name,
	nfc_ref,
	owner_id::text,
	creator_id::text,
	type,
	linked_album_id::text,
	linked_person_id::text,
	created_at
`

func scanNfcRow(scan func(dest ...any) error) (domain.NfcInfo, error) {
	var n domain.NfcInfo
	err := scan(
		&n.NfcID,
		&n.Name,
		&n.NfcRef,
		&n.OwnerID,
		&n.CreatorID,
		&n.Type,
		&n.LinkedAlbumID,
		&n.LinkedPersonID,
		&n.CreatedAt,
	)
	if err != nil {
		return domain.NfcInfo{}, translateErr(err)
	}
	return n, nil
}

func (r *PostgresNfcRepository) GetNfc(ctx context.Context, nfcID string) (*domain.NfcInfo, error) {
	if nfcID == "" {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+nfcColumns+` FROM nfc_infos WHERE nfc_id = $1`, nfcID)
	n, err := scanNfcRow(row.Scan)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PostgresNfcRepository) GetNfcByRef(ctx context.Context, nfcRef string) (*domain.NfcInfo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+nfcColumns+` FROM nfc_infos WHERE nfc_ref = $1`, nfcRef)
	n, err := scanNfcRow(row.Scan)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PostgresNfcRepository) queryNfcs(ctx context.Context, query string, args ...any) ([]domain.NfcInfo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.NfcInfo
	for rows.Next() {
		n, err := scanNfcRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, translateErr(rows.Err())
}

func (r *PostgresNfcRepository) FindNfcsByOwner(ctx context.Context, ownerID string) ([]domain.NfcInfo, error) {
	return r.queryNfcs(ctx,
		`SELECT `+nfcColumns+` FROM nfc_infos WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *PostgresNfcRepository) FindNfcsByCreator(ctx context.Context, creatorID string) ([]domain.NfcInfo, error) {
	return r.queryNfcs(ctx,
		`SELECT `+nfcColumns+` FROM nfc_infos WHERE creator_id = $1 ORDER BY created_at DESC`, creatorID)
}

func (r *PostgresNfcRepository) CreateNfc(ctx context.Context, nfc *domain.NfcInfo) (string, error) {
	id := nfc.NfcID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO nfc_infos (nfc_id, name, nfc_ref, owner_id, creator_id, type,
		                        linked_album_id, linked_person_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, nfc.Name, nfc.NfcRef, nfc.OwnerID, nfc.CreatorID, nfc.Type,
		nfc.LinkedAlbumID, nfc.LinkedPersonID, nfc.CreatedAt)
	if err != nil {
		return "", translateErr(err)
	}
	return id, nil
}

func (r *PostgresNfcRepository) UpdateNfc(ctx context.Context, nfc *domain.NfcInfo) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE nfc_infos
		 SET name = $2, type = $3, linked_album_id = $4, linked_person_id = $5
		 WHERE nfc_id = $1`,
		nfc.NfcID, nfc.Name, nfc.Type, nfc.LinkedAlbumID, nfc.LinkedPersonID)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresNfcRepository) DeleteNfc(ctx context.Context, nfcID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM nfc_infos WHERE nfc_id = $1`, nfcID)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
