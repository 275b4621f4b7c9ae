package identity

import (
	"context"
	"errors"

	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles profile reads and edits and the admin user list
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the actor's own account
func (s *UserService) GetProfile(ctx context.Context, actor shared.Actor) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes the actor's name and email
func (s *UserService) UpdateProfile(ctx context.Context, actor shared.Actor, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	email := identity.NormalizeEmail(req.Email)
	if email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Email is already registered")
		}
	}

	if err := user.UpdateProfile(req.Name, email); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Email is already registered")
		}
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns a page of users. Admin only.
func (s *UserService) List(ctx context.Context, actor shared.Actor, f UserListFilter) (*shared.Paginated[UserResponse], error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
	}.Normalize()
	if f.Role != "" {
		filter.Filters["role"] = f.Role
	}

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToUserResponses(users), total, filter.Page, filter.PageSize)
	return &page, nil
}

// BootstrapAdmin creates the configured admin account on first start.
// An existing account with that email is left as it is.
func (s *UserService) BootstrapAdmin(ctx context.Context, name, email, password string) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug("Bootstrap admin already exists")
		return nil
	}

	admin, err := identity.NewAdmin(name, email, password)
	if err != nil {
		return err
	}
	admin.ClearDomainEvents()
	if err := s.userRepo.Save(ctx, admin); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	s.logger.Info("Bootstrap admin created", zap.String("user_id", admin.ID.String()))
	return nil
}
