package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresMultimediaRepository implements MultimediaRepository.
type PostgresMultimediaRepository struct {
	db *sql.DB
}

func NewPostgresMultimediaRepository(db *sql.DB) *PostgresMultimediaRepository {
	return &PostgresMultimediaRepository{db: db}
}

var _ MultimediaRepository = (*PostgresMultimediaRepository)(nil)

const multimediaColumns = `
	id::text,
	sender_id::text,
	COALESCE(receiver_id::text, ''),
	created_at,
	sent_at,
	retrieved_at,
	owner_id::text,
	filename,
	content_type,
	size,
	file_key,
	album_id::text
`

func scanMultimediaRow(scan func(dest ...any) error) (domain.Multimedia, error) {
	var m domain.Multimedia
	err := scan(
		&m.ID,
		&m.SenderID,
		&m.ReceiverID,
		&m.CreatedAt,
		&m.SentAt,
		&m.RetrievedAt,
		&m.OwnerID,
		&m.Filename,
		&m.ContentType,
		&m.Size,
		&m.FileKey,
		&m.AlbumID,
	)
	if err != nil {
		return domain.Multimedia{}, translateErr(err)
	}
	return m, nil
}

func (r *PostgresMultimediaRepository) Get(ctx context.Context, id string) (domain.Multimedia, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+multimediaColumns+` FROM multimedia WHERE id = $1`, id)
	return scanMultimediaRow(row.Scan)
}

func (r *PostgresMultimediaRepository) queryMultimedia(ctx context.Context, query string, args ...any) ([]domain.Multimedia, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.Multimedia
	for rows.Next() {
		m, err := scanMultimediaRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, translateErr(rows.Err())
}

func (r *PostgresMultimediaRepository) List(ctx context.Context) ([]domain.Multimedia, error) {
	return r.queryMultimedia(ctx,
		`SELECT `+multimediaColumns+` FROM multimedia ORDER BY created_at DESC`)
}

func (r *PostgresMultimediaRepository) FindBySender(ctx context.Context, senderID string) ([]domain.Multimedia, error) {
	return r.queryMultimedia(ctx,
		`SELECT `+multimediaColumns+` FROM multimedia WHERE sender_id = $1 ORDER BY created_at DESC`, senderID)
}

func (r *PostgresMultimediaRepository) FindByReceiver(ctx context.Context, receiverID string) ([]domain.Multimedia, error) {
	return r.queryMultimedia(ctx,
		`SELECT `+multimediaColumns+` FROM multimedia WHERE receiver_id = $1 ORDER BY created_at DESC`, receiverID)
}

func (r *PostgresMultimediaRepository) FindByParty(ctx context.Context, personID string) ([]domain.Multimedia, error) {
	return r.queryMultimedia(ctx,
		`SELECT `+multimediaColumns+` FROM multimedia WHERE sender_id = $1 OR receiver_id = $1 ORDER BY created_at DESC`, personID)
}

func (r *PostgresMultimediaRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Multimedia, error) {
	return r.queryMultimedia(ctx,
		`SELECT `+multimediaColumns+` FROM multimedia WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *PostgresMultimediaRepository) FindByAlbum(ctx context.Context, albumID string) ([]domain.Multimedia, error) {
	return r.queryMultimedia(ctx,
		`SELECT `+multimediaColumns+` FROM multimedia WHERE album_id = $1 ORDER BY created_at DESC`, albumID)
}

func (r *PostgresMultimediaRepository) Create(ctx context.Context, m domain.Multimedia) (domain.Multimedia, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO multimedia (id, sender_id, receiver_id, created_at, sent_at, retrieved_at,
		                         owner_id, filename, content_type, size, file_key, album_id)
		 VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.SenderID, m.ReceiverID, m.CreatedAt, m.SentAt, m.RetrievedAt,
		m.OwnerID, m.Filename, m.ContentType, m.Size, m.FileKey, m.AlbumID)
	if err != nil {
		return domain.Multimedia{}, translateErr(err)
	}
	return m, nil
}

func (r *PostgresMultimediaRepository) Update(ctx context.Context, m domain.Multimedia) (domain.Multimedia, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE multimedia SET sent_at = $2, retrieved_at = $3, filename = $4, album_id = $5 WHERE id = $1`,
		m.ID, m.SentAt, m.RetrievedAt, m.Filename, m.AlbumID)
	if err != nil {
		return domain.Multimedia{}, translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Multimedia{}, ErrNotFound
	}
	return m, nil
}

func (r *PostgresMultimediaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM multimedia WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
