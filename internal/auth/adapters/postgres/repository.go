package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"reporting-service/internal/auth/core/domain"
	"reporting-service/internal/auth/core/ports"
)

// uniqueViolation is the Postgres error code for a duplicate key.
const uniqueViolation = "23505"

type CredentialRepository struct {
	db DB
}

func NewCredentialRepository(db DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

var _ ports.CredentialStorePort = (*CredentialRepository)(nil)

const selectUserSQL = `
SELECT id, name, email, password_hash, status, COALESCE(refresh_token, '')
FROM users
`

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, selectUserSQL+"WHERE email = $1", email)
}

func (r *CredentialRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, selectUserSQL+"WHERE id = $1", id)
}

func (r *CredentialRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ports.ErrUserNotFound
	}

	var u domain.User
	if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &u.RefreshToken); err != nil {
		return nil, err
	}
	return &u, rows.Err()
}

const insertUserSQL = `
INSERT INTO users (id, name, email, password_hash, status)
VALUES ($1, $2, $3, $4, $5)
`

func (r *CredentialRepository) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Name, u.Email, u.PasswordHash, u.Status)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ports.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *CredentialRepository) SaveRefreshToken(ctx context.Context, userID, token string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token = $2 WHERE id = $1`, userID, token)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SwapRefreshToken is the compare-and-swap that makes rotation
// single-use: the update lands only while the stored token still equals
// the presented one.
func (r *CredentialRepository) SwapRefreshToken(ctx context.Context, userID, old, next string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token = $3 WHERE id = $1 AND refresh_token = $2`,
		userID, old, next)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrUserNotFound
	}
	return nil
}
