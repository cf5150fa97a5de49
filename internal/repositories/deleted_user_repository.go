package repositories

import (
	"context"

	"github.com/rentopedia/rentals-service/internal/models"
)

// DeletedUserRepository archives accounts before the live row is removed.
type DeletedUserRepository interface {
	Create(ctx context.Context, d *models.DeletedUser) error
}

type deletedUserRepo struct {
	db DB
}

func NewDeletedUserRepository(db DB) DeletedUserRepository {
	return &deletedUserRepo{db: db}
}

func (r *deletedUserRepo) Create(ctx context.Context, d *models.DeletedUser) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO deleted_users (
            id, original_user_id, username, email, name, reason, deleted_at
        ) VALUES ($1,$2,$3,$4,$5,$6, NOW())
    `,
		d.ID,
		d.OriginalUserID,
		d.Username,
		d.Email,
		d.Name,
		d.Reason,
	)
	return err
}
