package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	txScope    TransactionScope
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	policy     identity.LockoutPolicy
	publisher  shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	txScope TransactionScope,
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	policy identity.LockoutPolicy,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		txScope:    txScope,
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

// SetEventPublisher sets the publisher for registration events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Register creates a customer account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user, err := identity.NewUser(req.Username, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already registered")
	}
	exists, err = s.userRepo.ExistsByEmail(ctx, user.Email, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))

	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.publisher != nil && len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Error("Failed to publish registration event", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}
	return s.issue(user)
}

// Login authenticates with username or email and password.
//
// The user row is locked for the duration of the attempt and the updated
// lockout state is committed whether or not the password matched; the
// credential error is returned only after the commit.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, clientIP string) (*AuthResponse, error) {
	now := s.now()
	var (
		user     *identity.User
		loginErr error
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		u, err := repos.UserRepo().FindByLoginForUpdate(ctx, req.Login)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				loginErr = identity.ErrInvalidCredentials
				return nil
			}
			return err
		}

		attemptErr := u.AttemptLogin(req.Password, now, s.policy, clientIP)
		if errors.Is(attemptErr, identity.ErrAccountLocked) || errors.Is(attemptErr, identity.ErrAccountPermanentlyLocked) {
			loginErr = attemptErr
			return nil
		}
		if err := repos.UserRepo().Update(ctx, u); err != nil {
			return err
		}
		user, loginErr = u, attemptErr
		return nil
	})
	if err != nil {
		s.logger.Error("Login transaction failed", zap.String("login", req.Login), zap.Error(err))
		return nil, err
	}

	if loginErr != nil {
		fields := []zap.Field{zap.String("login", req.Login), zap.String("ip", clientIP), zap.String("reason", errorCode(loginErr))}
		if user != nil {
			fields = append(fields,
				zap.Int("failed_attempts", user.Lockout.FailedAttempts),
				zap.String("lock_status", string(user.Lockout.Status(now))),
			)
		}
		s.logger.Warn("Login rejected", fields...)
		return nil, loginErr
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("ip", clientIP))
	return s.issue(user)
}

// Refresh rotates a refresh token. The presented token is revoked.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "User no longer exists")
		}
		return nil, err
	}
	if user.Lockout.Status(s.now()) == identity.LockStatusPermanent {
		return nil, identity.ErrAccountPermanentlyLocked
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, tokenError(err)
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke rotated refresh token", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return &AuthResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}, nil
}

// Logout revokes the current access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if err := s.blacklist.AddToBlacklist(ctx, input.AccessJTI, input.AccessTTL); err != nil {
		s.logger.Error("Failed to revoke access token", zap.String("user_id", input.UserID.String()), zap.Error(err))
		return err
	}

	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err == nil && claims.UserID == input.UserID.String() {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				s.logger.Warn("Failed to revoke refresh token", zap.String("user_id", input.UserID.String()), zap.Error(err))
			}
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// checkRevoked rejects tokens that were blacklisted or issued before the
// user's tokens were invalidated
func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked && claims.IssuedAt != nil {
		revoked, err = s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			return err
		}
	}
	if revoked {
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	}
	return nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}
	return &AuthResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}, nil
}

// tokenError maps JWT validation errors to domain errors
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "UNKNOWN"
}
