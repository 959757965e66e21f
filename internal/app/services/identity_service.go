package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
	"github.com/yigit/taskroom/internal/pkg/auth"
)

// IdentityUserStore is the subset of user repository operations the identity
// resolution needs. Kept narrow so resolution logic can be tested without a
// database.
type IdentityUserStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleUID(ctx context.Context, googleUID string) (*models.User, error)
	GetLinkedUserByGoogleEmail(ctx context.Context, googleEmail string) (*models.User, error)
	LinkGoogleAccount(ctx context.Context, userID int64, googleUID, googleEmail, displayName string, photoURL *string, originalDisplayName string, originalPhotoURL *string) error
	UnlinkGoogleAccount(ctx context.Context, userID int64, restoredDisplayName string, restoredPhotoURL *string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// IdentityService decides which local account a verified Google identity
// belongs to, and manages linking that identity to password accounts. Raw
// ID tokens are verified here; claims never come from the client.
type IdentityService struct {
	users       IdentityUserStore
	authService *AuthService
	verifier    auth.GoogleTokenVerifier
	logger      zerolog.Logger
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(users IdentityUserStore, authService *AuthService, verifier auth.GoogleTokenVerifier, logger zerolog.Logger) *IdentityService {
	return &IdentityService{
		users:       users,
		authService: authService,
		verifier:    verifier,
		logger:      logger,
	}
}

// verifyGoogleToken checks the raw ID token and returns its claims
func (s *IdentityService) verifyGoogleToken(ctx context.Context, rawToken string) (*auth.GoogleIdentity, error) {
	identity, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Google ID token rejected")
		return nil, apperrors.ErrGoogleTokenInvalid
	}
	return identity, nil
}

// ResolveCanonicalUser maps a verified Google identity onto a local account.
//
// Resolution order:
//  1. A user already bound to this Google UID wins outright.
//  2. Otherwise a user whose linked Google email matches is used and its
//     UID binding is refreshed.
//  3. An unlinked account holding the plain email is a collision: signing in
//     would silently capture someone's password account, so it is rejected.
//  4. No match creates a fresh account with the USER role and no password.
//
// The second return value reports whether a new account was created.
func (s *IdentityService) ResolveCanonicalUser(ctx context.Context, identity *auth.GoogleIdentity) (*models.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))

	user, err := s.users.GetUserByGoogleUID(ctx, identity.UID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, fmt.Errorf("google uid lookup error: %w", err)
	}

	user, err = s.users.GetLinkedUserByGoogleEmail(ctx, email)
	if err == nil {
		// Same Google account, new UID binding (e.g. re-created identity).
		// Refresh the link in place.
		var photoURL *string
		if identity.PhotoURL != "" {
			photoURL = &identity.PhotoURL
		}
		origName := user.DisplayName
		origPhoto := user.PhotoURL
		if user.OriginalDisplayName != nil {
			origName = *user.OriginalDisplayName
			origPhoto = user.OriginalPhotoURL
		}
		if err := s.users.LinkGoogleAccount(ctx, user.ID, identity.UID, email, identity.DisplayName, photoURL, origName, origPhoto); err != nil {
			return nil, false, err
		}
		refreshed, err := s.users.GetUserByID(ctx, user.ID)
		if err != nil {
			return nil, false, err
		}
		return refreshed, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, fmt.Errorf("google email lookup error: %w", err)
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		if !existing.GoogleLinked {
			// An unlinked password account already owns this address.
			// The owner must log in and link explicitly.
			return nil, false, apperrors.ErrEmailCollision
		}
		// Linked to a different Google identity than the one presented
		return nil, false, apperrors.ErrGoogleIdentityInUse
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, fmt.Errorf("email lookup error: %w", err)
	}

	var photoURL *string
	if identity.PhotoURL != "" {
		photoURL = &identity.PhotoURL
	}
	googleEmail := email
	googleUID := identity.UID
	newUser := &models.User{
		Email:        email,
		DisplayName:  identity.DisplayName,
		PhotoURL:     photoURL,
		Role:         models.RoleUser,
		IsActive:     true,
		GoogleLinked: true,
		GoogleEmail:  &googleEmail,
		GoogleUID:    &googleUID,
	}

	id, err := s.users.CreateUser(ctx, newUser)
	if err != nil {
		return nil, false, err
	}
	newUser.ID = id

	s.logger.Info().Int64("userID", id).Msg("Created account from Google identity")
	return newUser, true, nil
}

// GoogleSignIn verifies the ID token, resolves the identity and issues a
// token pair
func (s *IdentityService) GoogleSignIn(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.AuthResponse, error) {
	identity, err := s.verifyGoogleToken(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	user, _, err := s.ResolveCanonicalUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record login time")
	}

	return s.authService.generateAuthResponse(ctx, user)
}

// LinkGoogle attaches a Google identity to the authenticated account.
// The pre-link display name and photo are preserved for a later unlink.
func (s *IdentityService) LinkGoogle(ctx context.Context, userID int64, req *dto.LinkGoogleRequest) (*dto.UserResponse, error) {
	identity, err := s.verifyGoogleToken(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.GoogleLinked {
		return nil, apperrors.ErrGoogleAlreadyLinked
	}

	// Neither the Google UID nor the Google email may already belong to
	// another account.
	other, err := s.users.GetUserByGoogleUID(ctx, identity.UID)
	if err == nil && other.ID != userID {
		return nil, apperrors.ErrGoogleIdentityInUse
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("google uid lookup error: %w", err)
	}

	googleEmail := strings.ToLower(strings.TrimSpace(identity.Email))

	other, err = s.users.GetLinkedUserByGoogleEmail(ctx, googleEmail)
	if err == nil && other.ID != userID {
		return nil, apperrors.ErrGoogleIdentityInUse
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("google email lookup error: %w", err)
	}

	displayName := user.DisplayName
	photoURL := user.PhotoURL
	if identity.DisplayName != "" {
		displayName = identity.DisplayName
	}
	if identity.PhotoURL != "" {
		photoURL = &identity.PhotoURL
	}

	if err := s.users.LinkGoogleAccount(ctx, userID, identity.UID, googleEmail, displayName, photoURL, user.DisplayName, user.PhotoURL); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Google identity linked")

	updated, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(updated)
	return &resp, nil
}

// UnlinkGoogle detaches the Google identity and restores the pre-link
// profile. An account without a password would become unreachable, so
// unlinking requires one.
func (s *IdentityService) UnlinkGoogle(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.GoogleLinked {
		return nil, apperrors.ErrGoogleNotLinked
	}
	if !user.HasPassword() {
		return nil, apperrors.ErrPasswordlessUnlink
	}

	restoredName := user.DisplayName
	restoredPhoto := user.PhotoURL
	if user.OriginalDisplayName != nil {
		restoredName = *user.OriginalDisplayName
		restoredPhoto = user.OriginalPhotoURL
	}

	if err := s.users.UnlinkGoogleAccount(ctx, userID, restoredName, restoredPhoto); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Google identity unlinked")

	updated, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(updated)
	return &resp, nil
}
