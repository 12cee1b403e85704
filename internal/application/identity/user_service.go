package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/shopapi/backend/internal/application/audit"
	"github.com/shopapi/backend/internal/domain/audit"
	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles profile self-service and user administration
type UserService struct {
	txScope        TransactionScope
	userRepo       identity.UserRepository
	blacklist      auth.TokenBlacklist
	sessionTTL     time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewUserService creates a new UserService. sessionTTL bounds how long a
// token invalidation mark is kept and should match the refresh token lifetime.
func NewUserService(
	txScope TransactionScope,
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		txScope:    txScope,
		userRepo:   userRepo,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// SetEventPublisher sets the publisher for user events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetProfile returns the caller's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// UpdateProfile replaces the caller's name, email, phone and address
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		exists, err := s.userRepo.ExistsByEmail(ctx, req.Email, &user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
		}
	}

	address := user.Address
	if req.Address != nil {
		address, err = req.Address.ToAddress()
		if err != nil {
			return nil, err
		}
	}

	if err := user.UpdateProfile(req.Name, req.Email, req.Phone, address); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the caller's password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return err
	}
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

// List returns a page of users (admin)
func (s *UserService) List(ctx context.Context, query UserListQuery) ([]AdminUserResponse, int64, error) {
	filter := identity.UserFilter{Filter: shared.DefaultFilter()}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.OrderDir != "" {
		filter.OrderDir = query.OrderDir
	}
	filter.Search = query.Search
	if query.Role != "" {
		role, err := identity.ParseRole(query.Role)
		if err != nil {
			return nil, 0, err
		}
		filter.Role = &role
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]AdminUserResponse, len(users))
	for i, u := range users {
		out[i] = ToAdminUserResponse(u, now)
	}
	return out, total, nil
}

// Get returns one user with lockout details (admin)
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*AdminUserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAdminUserResponse(user, s.now())
	return &response, nil
}

// ChangeRole assigns a role and revokes the user's existing tokens
func (s *UserService) ChangeRole(ctx context.Context, actor AdminActor, id uuid.UUID, req ChangeRoleRequest) (*AdminUserResponse, error) {
	if actor.UserID == id {
		return nil, shared.NewDomainError("CANNOT_MODIFY_SELF", "Administrators cannot change their own role")
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	var user *identity.User
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		u, err := repos.UserRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous := u.Role
		if err := u.ChangeRole(role); err != nil {
			return err
		}
		if err := repos.UserRepo().Update(ctx, u); err != nil {
			return err
		}
		if err := appaudit.Record(ctx, repos.AuditRepo(), actor.UserID, audit.ActionUserRoleChanged, audit.TargetUser, u.ID,
			map[string]interface{}{"previous_role": string(previous), "new_role": string(role)}, actor.ClientIP); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSessions(ctx, user.ID)
	response := ToAdminUserResponse(user, s.now())
	return &response, nil
}

// Delete removes a user account and revokes its tokens
func (s *UserService) Delete(ctx context.Context, actor AdminActor, id uuid.UUID) error {
	if actor.UserID == id {
		return shared.NewDomainError("CANNOT_MODIFY_SELF", "Administrators cannot delete their own account")
	}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		u, err := repos.UserRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.UserRepo().Delete(ctx, u.ID); err != nil {
			return err
		}
		return appaudit.Record(ctx, repos.AuditRepo(), actor.UserID, audit.ActionUserDeleted, audit.TargetUser, u.ID,
			map[string]interface{}{"username": u.Username, "email": u.Email}, actor.ClientIP)
	})
	if err != nil {
		return err
	}

	s.invalidateSessions(ctx, id)
	s.logger.Info("User deleted", zap.String("user_id", id.String()), zap.String("actor_id", actor.UserID.String()))
	return nil
}

// Unlock clears a user's lockout state, temporary or permanent
func (s *UserService) Unlock(ctx context.Context, actor AdminActor, id uuid.UUID) (*UnlockResponse, error) {
	now := s.now()
	var (
		user     *identity.User
		previous identity.LockStatus
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		u, err := repos.UserRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		before := u.Lockout
		previous = u.Unlock(now)
		if err := repos.UserRepo().Update(ctx, u); err != nil {
			return err
		}

		details := map[string]interface{}{
			"previous_status": string(previous),
			"failed_attempts": before.FailedAttempts,
		}
		if before.LockUntil != nil {
			details["lock_until"] = before.LockUntil.UTC().Format(time.RFC3339)
		}
		if err := appaudit.Record(ctx, repos.AuditRepo(), actor.UserID, audit.ActionUserUnlocked, audit.TargetUser, u.ID, details, actor.ClientIP); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User unlocked",
		zap.String("user_id", user.ID.String()),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("previous_status", string(previous)),
	)
	s.publishEvents(ctx, user)

	return &UnlockResponse{User: ToAdminUserResponse(user, now), PreviousStatus: string(previous)}, nil
}

func (s *UserService) invalidateSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.InvalidateUser(ctx, userID.String(), s.sessionTTL); err != nil {
		s.logger.Warn("Failed to invalidate user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish user events", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}
