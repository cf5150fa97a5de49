package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/rentopedia/rentals-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error

	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	selectStmt := baseSelectUser() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanUser)
	return r
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, name, username, email, password_hash,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5, NOW(), NOW(), 1)
    `,
		u.ID,
		u.Name,
		u.Username,
		u.Email,
		u.PasswordHash,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := r.BaseVersionedRepo.GetByID(ctx, id.String())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE username=$1", username)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE users SET
            name=$1, email=$2, password_hash=$3, updated_at=NOW(),
            row_version=row_version+1
        WHERE id=$4 AND row_version=$5
    `,
		u.Name, u.Email, u.PasswordHash, u.ID, expected,
	)
}

func (r *userRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func baseSelectUser() string {
	return `
        SELECT id, name, username, email, password_hash, created_at, row_version
        FROM users`
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.RowVersion,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
