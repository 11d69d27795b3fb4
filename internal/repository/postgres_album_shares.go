package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresAlbumSharesRepository implements AlbumSharesRepository.
type PostgresAlbumSharesRepository struct {
	db *sql.DB
}

func NewPostgresAlbumSharesRepository(db *sql.DB) *PostgresAlbumSharesRepository {
	return &PostgresAlbumSharesRepository{db: db}
}

var _ AlbumSharesRepository = (*PostgresAlbumSharesRepository)(nil)

const albumShareColumns = `
	id::text,
	sender_id::text,
	receiver_id::text,
	created_at,
	sent_at,
	retrieved_at,
	album_id::text
`

func scanAlbumShareRow(scan func(dest ...any) error) (domain.AlbumShare, error) {
	var s domain.AlbumShare
	err := scan(
		&s.ID,
		&s.SenderID,
		&s.ReceiverID,
		&s.CreatedAt,
		&s.SentAt,
		&s.RetrievedAt,
		&s.AlbumID,
	)
	if err != nil {
		return domain.AlbumShare{}, translateErr(err)
	}
	return s, nil
}

func (r *PostgresAlbumSharesRepository) Get(ctx context.Context, id string) (domain.AlbumShare, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+albumShareColumns+` FROM album_shares WHERE id = $1`, id)
	return scanAlbumShareRow(row.Scan)
}

func (r *PostgresAlbumSharesRepository) queryShares(ctx context.Context, query string, args ...any) ([]domain.AlbumShare, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.AlbumShare
	for rows.Next() {
		s, err := scanAlbumShareRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, translateErr(rows.Err())
}

func (r *PostgresAlbumSharesRepository) List(ctx context.Context) ([]domain.AlbumShare, error) {
	return r.queryShares(ctx,
		`SELECT `+albumShareColumns+` FROM album_shares ORDER BY created_at DESC`)
}

func (r *PostgresAlbumSharesRepository) FindBySender(ctx context.Context, senderID string) ([]domain.AlbumShare, error) {
	return r.queryShares(ctx,
		`SELECT `+albumShareColumns+` FROM album_shares WHERE sender_id = $1 ORDER BY created_at DESC`, senderID)
}

func (r *PostgresAlbumSharesRepository) FindByReceiver(ctx context.Context, receiverID string) ([]domain.AlbumShare, error) {
	return r.queryShares(ctx,
		`SELECT `+albumShareColumns+` FROM album_shares WHERE receiver_id = $1 ORDER BY created_at DESC`, receiverID)
}

func (r *PostgresAlbumSharesRepository) FindByParty(ctx context.Context, personID string) ([]domain.AlbumShare, error) {
	return r.queryShares(ctx,
		`SELECT `+albumShareColumns+` FROM album_shares WHERE sender_id = $1 OR receiver_id = $1 ORDER BY created_at DESC`, personID)
}

func (r *PostgresAlbumSharesRepository) FindByAlbum(ctx context.Context, albumID string) ([]domain.AlbumShare, error) {
	return r.queryShares(ctx,
		`SELECT `+albumShareColumns+` FROM album_shares WHERE album_id = $1 ORDER BY created_at DESC`, albumID)
}

func (r *PostgresAlbumSharesRepository) Create(ctx context.Context, s domain.AlbumShare) (domain.AlbumShare, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO album_shares (id, sender_id, receiver_id, created_at, sent_at, retrieved_at, album_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.SenderID, s.ReceiverID, s.CreatedAt, s.SentAt, s.RetrievedAt, s.AlbumID)
	if err != nil {
		return domain.AlbumShare{}, translateErr(err)
	}
	return s, nil
}

func (r *PostgresAlbumSharesRepository) Update(ctx context.Context, s domain.AlbumShare) (domain.AlbumShare, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE album_shares SET sent_at = $2, retrieved_at = $3 WHERE id = $1`,
		s.ID, s.SentAt, s.RetrievedAt)
	if err != nil {
		return domain.AlbumShare{}, translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.AlbumShare{}, ErrNotFound
	}
	return s, nil
}
