package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresMessagesRepository implements MessagesRepository.
type PostgresMessagesRepository struct {
	db *sql.DB
}

func NewPostgresMessagesRepository(db *sql.DB) *PostgresMessagesRepository {
	return &PostgresMessagesRepository{db: db}
}

var _ MessagesRepository = (*PostgresMessagesRepository)(nil)

const messageColumns = `
	id::text,
	sender_id::text,
	receiver_id::text,
	created_at,
	sent_at,
	retrieved_at,
	text
`

func scanMessageRow(scan func(dest ...any) error) (domain.Message, error) {
	var m domain.Message
	err := scan(
		&m.ID,
		&m.SenderID,
		&m.ReceiverID,
		&m.CreatedAt,
		&m.SentAt,
		&m.RetrievedAt,
		&m.Text,
	)
	if err != nil {
		return domain.Message{}, translateErr(err)
	}
	return m, nil
}

func (r *PostgresMessagesRepository) Get(ctx context.Context, id string) (domain.Message, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	return scanMessageRow(row.Scan)
}

func (r *PostgresMessagesRepository) queryMessages(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m, err := scanMessageRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, translateErr(rows.Err())
}

func (r *PostgresMessagesRepository) List(ctx context.Context) ([]domain.Message, error) {
	return r.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
}

func (r *PostgresMessagesRepository) FindBySender(ctx context.Context, senderID string) ([]domain.Message, error) {
	return r.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE sender_id = $1 ORDER BY created_at DESC`, senderID)
}

func (r *PostgresMessagesRepository) FindByReceiver(ctx context.Context, receiverID string) ([]domain.Message, error) {
	return r.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE receiver_id = $1 ORDER BY created_at DESC`, receiverID)
}

func (r *PostgresMessagesRepository) FindByParty(ctx context.Context, personID string) ([]domain.Message, error) {
	return r.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE sender_id = $1 OR receiver_id = $1 ORDER BY created_at DESC`, personID)
}

func (r *PostgresMessagesRepository) Create(ctx context.Context, m domain.Message) (domain.Message, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, created_at, sent_at, retrieved_at, text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.SenderID, m.ReceiverID, m.CreatedAt, m.SentAt, m.RetrievedAt, m.Text)
	if err != nil {
		return domain.Message{}, translateErr(err)
	}
	return m, nil
}

func (r *PostgresMessagesRepository) Update(ctx context.Context, m domain.Message) (domain.Message, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET sent_at = $2, retrieved_at = $3, text = $4 WHERE id = $1`,
		m.ID, m.SentAt, m.RetrievedAt, m.Text)
	if err != nil {
		return domain.Message{}, translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Message{}, ErrNotFound
	}
	return m, nil
}
