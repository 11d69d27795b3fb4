package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresCallsRepository implements CallsRepository.
type PostgresCallsRepository struct {
	db *sql.DB
}

func NewPostgresCallsRepository(db *sql.DB) *PostgresCallsRepository {
	return &PostgresCallsRepository{db: db}
}

var _ CallsRepository = (*PostgresCallsRepository)(nil)

const callColumns = `
	id::text,
	sender_id::text,
	receiver_id::text,
	created_at,
	sent_at,
	retrieved_at,
	call_type,
	call_state,
	started_at,
	finished_at,
	sender_token,
	receiver_token
`

func scanCallRow(scan func(dest ...any) error) (domain.Call, error) {
	var c domain.Call
	err := scan(
		&c.ID,
		&c.SenderID,
		&c.ReceiverID,
		&c.CreatedAt,
		&c.SentAt,
		&c.RetrievedAt,
		&c.CallType,
		&c.CallState,
		&c.StartedAt,
		&c.FinishedAt,
		&c.SenderToken,
		&c.ReceiverToken,
	)
	if err != nil {
		return domain.Call{}, translateErr(err)
	}
	return c, nil
}

func (r *PostgresCallsRepository) Get(ctx context.Context, id string) (domain.Call, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+callColumns+` FROM calls WHERE id = $1`, id)
	return scanCallRow(row.Scan)
}

func (r *PostgresCallsRepository) queryCalls(ctx context.Context, query string, args ...any) ([]domain.Call, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.Call
	for rows.Next() {
		c, err := scanCallRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, translateErr(rows.Err())
}

func (r *PostgresCallsRepository) List(ctx context.Context) ([]domain.Call, error) {
	return r.queryCalls(ctx,
		`SELECT `+callColumns+` FROM calls ORDER BY created_at DESC`)
}

func (r *PostgresCallsRepository) FindBySender(ctx context.Context, senderID string) ([]domain.Call, error) {
	return r.queryCalls(ctx,
		`SELECT `+callColumns+` FROM calls WHERE sender_id = $1 ORDER BY created_at DESC`, senderID)
}

func (r *PostgresCallsRepository) FindByReceiver(ctx context.Context, receiverID string) ([]domain.Call, error) {
	return r.queryCalls(ctx,
		`SELECT `+callColumns+` FROM calls WHERE receiver_id = $1 ORDER BY created_at DESC`, receiverID)
}

func (r *PostgresCallsRepository) FindByParty(ctx context.Context, personID string) ([]domain.Call, error) {
	return r.queryCalls(ctx,
		`SELECT `+callColumns+` FROM calls WHERE sender_id = $1 OR receiver_id = $1 ORDER BY created_at DESC`, personID)
}

func (r *PostgresCallsRepository) Create(ctx context.Context, c domain.Call) (domain.Call, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calls (id, sender_id, receiver_id, created_at, sent_at, retrieved_at,
		                    call_type, call_state, started_at, finished_at, sender_token, receiver_token)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.SenderID, c.ReceiverID, c.CreatedAt, c.SentAt, c.RetrievedAt,
		c.CallType, c.CallState, c.StartedAt, c.FinishedAt, c.SenderToken, c.ReceiverToken)
	if err != nil {
		return domain.Call{}, translateErr(err)
	}
	return c, nil
}

func (r *PostgresCallsRepository) Update(ctx context.Context, c domain.Call) (domain.Call, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE calls
		 SET sent_at = $2, retrieved_at = $3, call_state = $4, started_at = $5, finished_at = $6
		 WHERE id = $1`,
		c.ID, c.SentAt, c.RetrievedAt, c.CallState, c.StartedAt, c.FinishedAt)
	if err != nil {
		return domain.Call{}, translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Call{}, ErrNotFound
	}
	return c, nil
}

func (r *PostgresCallsRepository) CountCallsByState(ctx context.Context) (map[domain.CallState]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT call_state, COUNT(*) FROM calls GROUP BY call_state`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	counts := make(map[domain.CallState]int)
	for rows.Next() {
		var state domain.CallState
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, translateErr(err)
		}
		counts[state] = n
	}
	return counts, translateErr(rows.Err())
}
