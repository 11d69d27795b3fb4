package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresAlbumsRepository implements AlbumsRepository.
type PostgresAlbumsRepository struct {
	db *sql.DB
}

func NewPostgresAlbumsRepository(db *sql.DB) *PostgresAlbumsRepository {
	return &PostgresAlbumsRepository{db: db}
}

var _ AlbumsRepository = (*PostgresAlbumsRepository)(nil)

const albumColumns = `album_id::text, name, owner_id::text, created_at`

func scanAlbumRow(scan func(dest ...any) error) (domain.Album, error) {
	var a domain.Album
	err := scan(&a.AlbumID, &a.Name, &a.OwnerID, &a.CreatedAt)
	if err != nil {
		return domain.Album{}, translateErr(err)
	}
	return a, nil
}

func (r *PostgresAlbumsRepository) GetAlbum(ctx context.Context, albumID string) (*domain.Album, error) {
	if albumID == "" {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE album_id = $1`, albumID)
	a, err := scanAlbumRow(row.Scan)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAlbumsRepository) queryAlbums(ctx context.Context, query string, args ...any) ([]domain.Album, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.Album
	for rows.Next() {
		a, err := scanAlbumRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, translateErr(rows.Err())
}

func (r *PostgresAlbumsRepository) FindAlbumsByOwner(ctx context.Context, ownerID string) ([]domain.Album, error) {
	return r.queryAlbums(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE owner_id = $1 ORDER BY name`, ownerID)
}

func (r *PostgresAlbumsRepository) FindAlbumsSharedWith(ctx context.Context, personID string) ([]domain.Album, error) {
	return r.queryAlbums(ctx,
		`SELECT DISTINCT a.album_id::text, a.name, a.owner_id::text, a.created_at
		 FROM albums a
		 JOIN album_shares s ON s.album_id = a.album_id
		 WHERE s.receiver_id = $1
		 ORDER BY a.name`, personID)
}

func (r *PostgresAlbumsRepository) CreateAlbum(ctx context.Context, album *domain.Album) (string, error) {
	id := album.AlbumID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO albums (album_id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
		id, album.Name, album.OwnerID, album.CreatedAt)
	if err != nil {
		return "", translateErr(err)
	}
	return id, nil
}

func (r *PostgresAlbumsRepository) UpdateAlbum(ctx context.Context, album *domain.Album) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE albums SET name = $2 WHERE album_id = $1`, album.AlbumID, album.Name)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAlbumsRepository) DeleteAlbum(ctx context.Context, albumID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM albums WHERE album_id = $1`, albumID)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
