package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	gocache "github.com/patrickmn/go-cache"

	"github.com/rentopedia/rentals-service/internal/dtos"
	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/repositories"
	"github.com/rentopedia/rentals-service/internal/utils"
)

const (
	propertyListCacheKey = "properties:all"
	propertyListCacheTTL = 30 * time.Second
)

// PropertyService covers the listing CRUD around the rent-request core.
type PropertyService struct {
	props repositories.PropertyRepository
	cache *gocache.Cache
}

func NewPropertyService(props repositories.PropertyRepository) *PropertyService {
	return &PropertyService{
		props: props,
		cache: gocache.New(propertyListCacheTTL, 5*time.Minute),
	}
}

func (s *PropertyService) Create(ctx context.Context, owner string, req dtos.CreatePropertyRequest) (*models.Property, error) {
	p := &models.Property{
		ID:           uuid.New(),
		OwnerUserID:  owner,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Location:     req.Location,
		RentType:     req.RentType,
		Condition:    req.Condition,
		Price:        req.Price,
		Deposit:      req.Deposit,
		Images:       req.Images,
		Status:       models.PropertyStatusAvailable,
		RentRequests: []models.RentRequest{},
		Reviews:      []models.Review{},
		ViewedBy:     []string{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.props.Create(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Delete(propertyListCacheKey)
	return p, nil
}

// ListAll is the public storefront query; it is read-heavy, so results
// sit in a short-lived in-process cache.
func (s *PropertyService) ListAll(ctx context.Context) ([]*models.Property, error) {
	if cached, ok := s.cache.Get(propertyListCacheKey); ok {
		return cached.([]*models.Property), nil
	}
	props, err := s.props.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(propertyListCacheKey, props, propertyListCacheTTL)
	return props, nil
}

// Get fetches one property. A logged-in viewer is counted once: the
// first visit appends them to the viewer set and bumps the counter,
// through the same locked update path as any other property mutation.
func (s *PropertyService) Get(ctx context.Context, id uuid.UUID, viewerUserID string) (*models.Property, error) {
	p, err := s.props.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrPropertyNotFound
	}

	if viewerUserID == "" || p.HasViewer(viewerUserID) {
		return p, nil
	}

	var updated models.Property
	err = s.props.UpdateWithRetry(ctx, id, func(fresh *models.Property) error {
		fresh.RecordView(viewerUserID)
		updated = *fresh
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrPropertyNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// ListByOwner is restricted to the owner's own listings.
func (s *PropertyService) ListByOwner(ctx context.Context, username, actor string) ([]*models.Property, error) {
	if username != actor {
		return nil, utils.ErrNotPropertyOwner
	}
	return s.props.ListByOwner(ctx, username)
}

func (s *PropertyService) AddReview(
	ctx context.Context,
	propertyID uuid.UUID,
	userID uuid.UUID,
	username string,
	req dtos.AddReviewRequest,
) (*models.Property, error) {
	var updated models.Property
	err := s.props.UpdateWithRetry(ctx, propertyID, func(p *models.Property) error {
		p.AddReview(userID, username, req.Rating, req.Comment, time.Now().UTC())
		updated = *p
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrPropertyNotFound
		}
		return nil, err
	}
	return &updated, nil
}
