package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/rentopedia/rentals-service/internal/dtos"
	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/repositories"
	"github.com/rentopedia/rentals-service/internal/utils"
)

// UserService covers the account endpoints: profile reads, password
// change, and archival deletion.
type UserService struct {
	users   repositories.UserRepository
	deleted repositories.DeletedUserRepository
	props   repositories.PropertyRepository
}

func NewUserService(
	users repositories.UserRepository,
	deleted repositories.DeletedUserRepository,
	props repositories.PropertyRepository,
) *UserService {
	return &UserService{users: users, deleted: deleted, props: props}
}

func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

// Profile is the public user page: the account plus its listings.
func (s *UserService) Profile(ctx context.Context, username string) (*dtos.ProfileResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	props, err := s.props.ListByOwner(ctx, username)
	if err != nil {
		return nil, err
	}
	return &dtos.ProfileResponse{User: user, Properties: props}, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, req dtos.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return utils.ErrPasswordMismatch
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return utils.ErrUserNotFound
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	err = s.users.UpdateWithRetry(ctx, uid, func(u *models.User) error {
		if !utils.CheckPasswordHash(req.OldPassword, u.PasswordHash) {
			return utils.ErrInvalidCredentials
		}
		u.PasswordHash = newHash
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.ErrUserNotFound
	}
	return err
}

// DeleteAccount archives the user, removes their listings, then removes
// the account row.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return utils.ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return utils.ErrUserNotFound
	}

	archive := &models.DeletedUser{
		ID:             uuid.New(),
		OriginalUserID: user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Name:           user.Name,
		Reason:         models.DeletionReasonUserRequested,
	}
	if err := s.deleted.Create(ctx, archive); err != nil {
		return err
	}
	if err := s.props.DeleteByOwner(ctx, user.Username); err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}
