package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

// Messages returned by the account flows.
const (
	MsgCredentialsRequired = "Please provide email and password"
	MsgUserExists          = "User already exists"
	MsgEmailTaken          = "Email already exists"
	MsgInvalidCredentials  = "Invalid credentials"
)

// UserUpdate carries optional profile changes; nil or empty fields are left untouched.
type UserUpdate struct {
	Email    *string
	Password *string
	Name     *string
}

// UserService coordinates registration, login and profile management.
type UserService struct {
	users      repository.UserRepository
	codec      *auth.Codec
	dispatcher events.Dispatcher
	bcryptCost int
}

// UserDependencies encapsulates collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Codec      *auth.Codec
	Dispatcher events.Dispatcher
	BcryptCost int
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(nil)
	}
	return &UserService{
		users:      deps.UserRepo,
		codec:      deps.Codec,
		dispatcher: dispatcher,
		bcryptCost: deps.BcryptCost,
	}
}

// Register creates a new USER account.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError(MsgCredentialsRequired)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError(MsgUserExists)
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user, user.ID)
	return user, nil
}

// Login authenticates an account and issues a bearer token.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", apperrors.NewValidationError(MsgCredentialsRequired)
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return nil, "", err
	}
	if !auth.PasswordMatches(user.PasswordHash, password) {
		return nil, "", apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	token, _, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Get returns the account with the given id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("User")
		}
		return nil, err
	}
	return user, nil
}

// List returns accounts whose name or email contains search, newest first.
func (s *UserService) List(ctx context.Context, search string) ([]domain.User, error) {
	return s.users.List(ctx, repository.UserFilter{Search: search})
}

// Update applies profile changes. Ownership is enforced by the route's gates.
func (s *UserService) Update(ctx context.Context, id string, in UserUpdate) (*domain.User, error) {
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		existing, err := s.users.GetByEmail(ctx, strings.TrimSpace(*in.Email))
		switch {
		case err == nil && existing.ID != id:
			return nil, apperrors.NewValidationError(MsgEmailTaken)
		case err != nil && !repository.IsNotFound(err):
			return nil, err
		}
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Name != nil && *in.Name != "" {
		user.Name = *in.Name
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserUpdated, user, id)
	return user, nil
}

// Delete removes the account with the given id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.EventUserDeleted, user, id)
	return nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, user *domain.User, actorID string) {
	s.dispatcher.Publish(ctx, events.NewEvent(eventType, user.ID, actorID, events.UserChangedPayload{
		Email: user.Email,
		Role:  string(user.Role),
	}))
}
