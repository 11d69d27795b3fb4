package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresPersonsRepository implements PersonsRepository.
type PostgresPersonsRepository struct {
	db *sql.DB
}

func NewPostgresPersonsRepository(db *sql.DB) *PostgresPersonsRepository {
	return &PostgresPersonsRepository{db: db}
}

var _ PersonsRepository = (*PostgresPersonsRepository)(nil)

const personColumns = `
	person_id::text,
	account_id::text,
	name,
	group_id::text,
	member_type,
	avatar_key
`

func scanPersonRow(scan func(dest ...any) error) (domain.Person, error) {
	var p domain.Person
	err := scan(
		&p.PersonID,
		&p.AccountID,
		&p.Name,
		&p.GroupID,
		&p.MemberType,
		&p.AvatarKey,
	)
	if err != nil {
		return domain.Person{}, translateErr(err)
	}
	return p, nil
}

func (r *PostgresPersonsRepository) GetPerson(ctx context.Context, personID string) (*domain.Person, error) {
	if personID == "" {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM persons WHERE person_id = $1`, personID)
	p, err := scanPersonRow(row.Scan)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPersonsRepository) queryPersons(ctx context.Context, query string, args ...any) ([]domain.Person, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var persons []domain.Person
	for rows.Next() {
		p, err := scanPersonRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, translateErr(rows.Err())
}

func (r *PostgresPersonsRepository) FindPersonsByAccount(ctx context.Context, accountID string) ([]domain.Person, error) {
	return r.queryPersons(ctx,
		`SELECT `+personColumns+` FROM persons WHERE account_id = $1 ORDER BY name`, accountID)
}

func (r *PostgresPersonsRepository) FindPersonsByGroup(ctx context.Context, groupID string) ([]domain.Person, error) {
	return r.queryPersons(ctx,
		`SELECT `+personColumns+` FROM persons WHERE group_id = $1 ORDER BY name`, groupID)
}

func (r *PostgresPersonsRepository) CreatePerson(ctx context.Context, person *domain.Person) (string, error) {
	id := person.PersonID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO persons (person_id, account_id, name, group_id, member_type, avatar_key)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, person.AccountID, person.Name, person.GroupID, person.MemberType, person.AvatarKey)
	if err != nil {
		return "", translateErr(err)
	}
	return id, nil
}

func (r *PostgresPersonsRepository) UpdatePerson(ctx context.Context, person *domain.Person) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE persons
		 SET name = $2, member_type = $3, avatar_key = $4
		 WHERE person_id = $1`,
		person.PersonID, person.Name, person.MemberType, person.AvatarKey)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresPersonsRepository) DeletePerson(ctx context.Context, personID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM persons WHERE person_id = $1`, personID)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresPersonsRepository) CountPersons(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&n)
	return n, translateErr(err)
}
