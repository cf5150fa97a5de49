package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/rentopedia/rentals-service/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListAll(ctx context.Context) ([]*models.Property, error)
	ListByOwner(ctx context.Context, username string) ([]*models.Property, error)

	// ListByRequester returns every property holding at least one rent
	// request filed by the given username.
	ListByRequester(ctx context.Context, username string) ([]*models.Property, error)
	// ListWithRequestsByOwner returns the owner's properties that have a
	// non-empty rent-request list.
	ListWithRequestsByOwner(ctx context.Context, username string) ([]*models.Property, error)

	Update(ctx context.Context, p *models.Property) error
	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error

	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, username string) error
}

/* ------------------------------------------------------------------
   Implementation

   The rent-request list, reviews, images and viewer set are JSONB
   columns on the property row, so a lifecycle transition plus the
   availability recompute commit as a single row update.
------------------------------------------------------------------ */

type propertyRepo struct {
	*BaseVersionedRepo[*models.Property]
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	r := &propertyRepo{db: db}
	selectStmt := baseSelectProperty() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanProperty)
	return r
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	images, err := marshalJSONB(p.Images)
	if err != nil {
		return err
	}
	requests, err := marshalJSONB(p.RentRequests)
	if err != nil {
		return err
	}
	reviews, err := marshalJSONB(p.Reviews)
	if err != nil {
		return err
	}
	viewedBy, err := marshalJSONB(p.ViewedBy)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
        INSERT INTO properties (
            id, owner_user_id, title, description, category, sub_category,
            location, rent_type, condition, price, deposit, images, status,
            rent_requests, reviews, views_count, viewed_by,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17, NOW(), NOW(), 1)
    `,
		p.ID,
		p.OwnerUserID,
		p.Title,
		p.Description,
		p.Category,
		p.SubCategory,
		p.Location,
		p.RentType,
		p.Condition,
		p.Price,
		p.Deposit,
		images,
		string(p.Status),
		requests,
		reviews,
		p.ViewsCount,
		viewedBy,
	)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := r.BaseVersionedRepo.GetByID(ctx, id.String())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *propertyRepo) ListAll(ctx context.Context) ([]*models.Property, error) {
	return r.list(ctx, baseSelectProperty()+" ORDER BY created_at DESC")
}

func (r *propertyRepo) ListByOwner(ctx context.Context, username string) ([]*models.Property, error) {
	return r.list(ctx, baseSelectProperty()+" WHERE owner_user_id=$1 ORDER BY created_at", username)
}

func (r *propertyRepo) ListByRequester(ctx context.Context, username string) ([]*models.Property, error) {
	probe, err := marshalJSONB([]map[string]string{{"requester": username}})
	if err != nil {
		return nil, err
	}
	return r.list(ctx, baseSelectProperty()+" WHERE rent_requests @> $1 ORDER BY created_at", probe)
}

func (r *propertyRepo) ListWithRequestsByOwner(ctx context.Context, username string) ([]*models.Property, error) {
	return r.list(ctx,
		baseSelectProperty()+" WHERE owner_user_id=$1 AND jsonb_array_length(rent_requests) > 0 ORDER BY created_at",
		username)
}

func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	_, err := r.update(ctx, p, false, 0)
	return err
}

func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, p, true, expected)
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	return err
}

func (r *propertyRepo) DeleteByOwner(ctx context.Context, username string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM properties WHERE owner_user_id=$1`, username)
	return err
}

/* ------------------------------------------------------------------
   Internals
------------------------------------------------------------------ */

func (r *propertyRepo) update(ctx context.Context, p *models.Property, check bool, expected int64) (pgconn.CommandTag, error) {
	images, err := marshalJSONB(p.Images)
	if err != nil {
		return nil, err
	}
	requests, err := marshalJSONB(p.RentRequests)
	if err != nil {
		return nil, err
	}
	reviews, err := marshalJSONB(p.Reviews)
	if err != nil {
		return nil, err
	}
	viewedBy, err := marshalJSONB(p.ViewedBy)
	if err != nil {
		return nil, err
	}

	sql := `
        UPDATE properties SET
            title=$1, description=$2, category=$3, sub_category=$4,
            location=$5, rent_type=$6, condition=$7, price=$8, deposit=$9,
            images=$10, status=$11, rent_requests=$12, reviews=$13,
            views_count=$14, viewed_by=$15, updated_at=NOW()
    `
	args := []interface{}{
		p.Title, p.Description, p.Category, p.SubCategory,
		p.Location, p.RentType, p.Condition, p.Price, p.Deposit,
		images, string(p.Status), requests, reviews,
		p.ViewsCount, viewedBy,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$16 AND row_version=$17`
		args = append(args, p.ID, expected)
	} else {
		sql += ` WHERE id=$16`
		args = append(args, p.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *propertyRepo) list(ctx context.Context, sql string, args ...interface{}) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func baseSelectProperty() string {
	return `
        SELECT id, owner_user_id, title, description, category, sub_category,
               location, rent_type, condition, price, deposit, images, status,
               rent_requests, reviews, views_count, viewed_by,
               created_at, row_version
        FROM properties`
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var (
		p        models.Property
		status   string
		images   []byte
		requests []byte
		reviews  []byte
		viewedBy []byte
	)
	err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.SubCategory,
		&p.Location,
		&p.RentType,
		&p.Condition,
		&p.Price,
		&p.Deposit,
		&images,
		&status,
		&requests,
		&reviews,
		&p.ViewsCount,
		&viewedBy,
		&p.CreatedAt,
		&p.RowVersion,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.PropertyStatus(status)

	if err := unmarshalJSONB(images, &p.Images); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(requests, &p.RentRequests); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(reviews, &p.Reviews); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(viewedBy, &p.ViewedBy); err != nil {
		return nil, err
	}
	return &p, nil
}

// marshalJSONB renders v as a JSON string parameter; the server coerces
// it to jsonb. nil slices render as empty arrays, not null.
func marshalJSONB(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal jsonb: %w", err)
	}
	s := string(b)
	if s == "null" {
		s = "[]"
	}
	return s, nil
}

func unmarshalJSONB(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
