package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
	"github.com/yigit/taskroom/internal/pkg/auth"
)

// fakeUserStore is an in-memory IdentityUserStore
type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) add(user *models.User) *models.User {
	user.ID = f.nextID
	f.nextID++
	clone := *user
	f.users[user.ID] = &clone
	return user
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) (int64, error) {
	f.add(user)
	return user.ID, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByGoogleUID(_ context.Context, googleUID string) (*models.User, error) {
	for _, u := range f.users {
		if u.GoogleUID != nil && *u.GoogleUID == googleUID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetLinkedUserByGoogleEmail(_ context.Context, googleEmail string) (*models.User, error) {
	for _, u := range f.users {
		if u.GoogleLinked && u.GoogleEmail != nil && *u.GoogleEmail == googleEmail {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) LinkGoogleAccount(_ context.Context, userID int64, googleUID, googleEmail, displayName string, photoURL *string, originalDisplayName string, originalPhotoURL *string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.GoogleLinked = true
	u.GoogleUID = &googleUID
	u.GoogleEmail = &googleEmail
	u.DisplayName = displayName
	u.PhotoURL = photoURL
	u.OriginalDisplayName = &originalDisplayName
	u.OriginalPhotoURL = originalPhotoURL
	return nil
}

func (f *fakeUserStore) UnlinkGoogleAccount(_ context.Context, userID int64, restoredDisplayName string, restoredPhotoURL *string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.GoogleLinked = false
	u.GoogleUID = nil
	u.GoogleEmail = nil
	u.DisplayName = restoredDisplayName
	u.PhotoURL = restoredPhotoURL
	u.OriginalDisplayName = nil
	u.OriginalPhotoURL = nil
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// fakeVerifier returns a fixed identity per token, or an error for
// anything unknown
type fakeVerifier struct {
	tokens map[string]*auth.GoogleIdentity
}

func (f *fakeVerifier) Verify(_ context.Context, rawToken string) (*auth.GoogleIdentity, error) {
	if identity, ok := f.tokens[rawToken]; ok {
		return identity, nil
	}
	return nil, auth.ErrInvalidGoogleToken
}

func newIdentityServiceForTest(store IdentityUserStore, tokens map[string]*auth.GoogleIdentity) *IdentityService {
	return NewIdentityService(store, nil, &fakeVerifier{tokens: tokens}, zerolog.Nop())
}

func googleIdentity() *auth.GoogleIdentity {
	return &auth.GoogleIdentity{
		UID:         "uid-123",
		Email:       "Jane@Example.com",
		DisplayName: "Jane",
		PhotoURL:    "https://photos.example.com/jane.png",
	}
}

func TestResolveCanonicalUser_NewIdentityCreatesAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := newIdentityServiceForTest(store, nil)

	user, created, err := svc.ResolveCanonicalUser(context.Background(), googleIdentity())
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.GoogleLinked)
	assert.False(t, user.HasPassword())
	require.NotNil(t, user.GoogleUID)
	assert.Equal(t, "uid-123", *user.GoogleUID)
}

func TestResolveCanonicalUser_UIDMatchWins(t *testing.T) {
	store := newFakeUserStore()
	uid := "uid-123"
	email := "jane@example.com"
	existing := store.add(&models.User{
		Email:        email,
		DisplayName:  "Jane",
		Role:         models.RoleUser,
		IsActive:     true,
		GoogleLinked: true,
		GoogleEmail:  &email,
		GoogleUID:    &uid,
	})
	svc := newIdentityServiceForTest(store, nil)

	user, created, err := svc.ResolveCanonicalUser(context.Background(), googleIdentity())
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, existing.ID, user.ID)
}

func TestResolveCanonicalUser_LinkedEmailRefreshesUID(t *testing.T) {
	store := newFakeUserStore()
	oldUID := "uid-old"
	email := "jane@example.com"
	origName := "Jane Original"
	existing := store.add(&models.User{
		Email:               email,
		DisplayName:         "Jane",
		Role:                models.RoleUser,
		IsActive:            true,
		GoogleLinked:        true,
		GoogleEmail:         &email,
		GoogleUID:           &oldUID,
		OriginalDisplayName: &origName,
	})
	svc := newIdentityServiceForTest(store, nil)

	user, created, err := svc.ResolveCanonicalUser(context.Background(), googleIdentity())
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, existing.ID, user.ID)
	require.NotNil(t, user.GoogleUID)
	assert.Equal(t, "uid-123", *user.GoogleUID)
	// The original pre-link profile is carried across the rebind
	require.NotNil(t, user.OriginalDisplayName)
	assert.Equal(t, "Jane Original", *user.OriginalDisplayName)
}

func TestResolveCanonicalUser_UnlinkedEmailCollides(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{
		Email:       "jane@example.com",
		Password:    "hashed",
		DisplayName: "Jane",
		Role:        models.RoleStudent,
		IsActive:    true,
	})
	svc := newIdentityServiceForTest(store, nil)

	_, _, err := svc.ResolveCanonicalUser(context.Background(), googleIdentity())
	assert.ErrorIs(t, err, apperrors.ErrEmailCollision)
}

func TestGoogleSignIn_UnverifiableTokenRejected(t *testing.T) {
	store := newFakeUserStore()
	uid := "victim-sub"
	store.add(&models.User{
		Email:        "victim@example.com",
		DisplayName:  "Victim",
		Role:         models.RoleUser,
		IsActive:     true,
		GoogleLinked: true,
		GoogleUID:    &uid,
	})
	svc := newIdentityServiceForTest(store, nil)

	// A raw claim assertion is not a verifiable token, no matter whose
	// identity it names. It must never reach account resolution.
	_, err := svc.GoogleSignIn(context.Background(), &dto.GoogleSignInRequest{IDToken: "victim-sub"})
	assert.ErrorIs(t, err, apperrors.ErrGoogleTokenInvalid)
}

func TestLinkGoogle_AlreadyLinked(t *testing.T) {
	store := newFakeUserStore()
	uid := "uid-old"
	user := store.add(&models.User{
		Email:        "jane@example.com",
		DisplayName:  "Jane",
		Role:         models.RoleStudent,
		IsActive:     true,
		GoogleLinked: true,
		GoogleUID:    &uid,
	})
	svc := newIdentityServiceForTest(store, map[string]*auth.GoogleIdentity{
		"token-new": {UID: "uid-new", Email: "jane@gmail.com", DisplayName: "Jane"},
	})

	_, err := svc.LinkGoogle(context.Background(), user.ID, &dto.LinkGoogleRequest{IDToken: "token-new"})
	assert.ErrorIs(t, err, apperrors.ErrGoogleAlreadyLinked)
}

func TestLinkGoogle_UnverifiableTokenRejected(t *testing.T) {
	store := newFakeUserStore()
	user := store.add(&models.User{
		Email:       "jane@example.com",
		Password:    "hashed",
		DisplayName: "Jane",
		Role:        models.RoleStudent,
		IsActive:    true,
	})
	svc := newIdentityServiceForTest(store, nil)

	_, err := svc.LinkGoogle(context.Background(), user.ID, &dto.LinkGoogleRequest{IDToken: "garbage"})
	assert.ErrorIs(t, err, apperrors.ErrGoogleTokenInvalid)
}

func TestLinkGoogle_IdentityOwnedByOtherAccount(t *testing.T) {
	store := newFakeUserStore()
	uid := "uid-123"
	store.add(&models.User{
		Email:        "other@example.com",
		DisplayName:  "Other",
		Role:         models.RoleUser,
		IsActive:     true,
		GoogleLinked: true,
		GoogleUID:    &uid,
	})
	user := store.add(&models.User{
		Email:       "jane@example.com",
		Password:    "hashed",
		DisplayName: "Jane",
		Role:        models.RoleStudent,
		IsActive:    true,
	})
	svc := newIdentityServiceForTest(store, map[string]*auth.GoogleIdentity{
		"token-123": {UID: "uid-123", Email: "jane@gmail.com", DisplayName: "Jane"},
	})

	_, err := svc.LinkGoogle(context.Background(), user.ID, &dto.LinkGoogleRequest{IDToken: "token-123"})
	assert.ErrorIs(t, err, apperrors.ErrGoogleIdentityInUse)
}

func TestLinkGoogle_EmailOwnedByOtherAccount(t *testing.T) {
	store := newFakeUserStore()
	uidA := "uid-a"
	gmail := "shared@gmail.com"
	store.add(&models.User{
		Email:        "a@example.com",
		DisplayName:  "A",
		Role:         models.RoleUser,
		IsActive:     true,
		GoogleLinked: true,
		GoogleUID:    &uidA,
		GoogleEmail:  &gmail,
	})
	userB := store.add(&models.User{
		Email:       "b@example.com",
		Password:    "hashed",
		DisplayName: "B",
		Role:        models.RoleStudent,
		IsActive:    true,
	})
	svc := newIdentityServiceForTest(store, map[string]*auth.GoogleIdentity{
		// Different Google UID, but a Google email already linked on A.
		// Two accounts claiming one google_email would make email-based
		// resolution ambiguous.
		"token-b": {UID: "uid-b", Email: "Shared@Gmail.com", DisplayName: "B"},
	})

	_, err := svc.LinkGoogle(context.Background(), userB.ID, &dto.LinkGoogleRequest{IDToken: "token-b"})
	assert.ErrorIs(t, err, apperrors.ErrGoogleIdentityInUse)
}

func TestLinkThenUnlinkRestoresProfile(t *testing.T) {
	store := newFakeUserStore()
	photo := "https://photos.example.com/original.png"
	user := store.add(&models.User{
		Email:       "jane@example.com",
		Password:    "hashed",
		DisplayName: "Jane Original",
		PhotoURL:    &photo,
		Role:        models.RoleStudent,
		IsActive:    true,
	})
	svc := newIdentityServiceForTest(store, map[string]*auth.GoogleIdentity{
		"token-123": {
			UID:         "uid-123",
			Email:       "Jane@Gmail.com",
			DisplayName: "Jane G",
			PhotoURL:    "https://photos.example.com/google.png",
		},
	})

	linked, err := svc.LinkGoogle(context.Background(), user.ID, &dto.LinkGoogleRequest{IDToken: "token-123"})
	require.NoError(t, err)
	assert.Equal(t, "Jane G", linked.DisplayName)

	unlinked, err := svc.UnlinkGoogle(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Original", unlinked.DisplayName)
	assert.Equal(t, photo, unlinked.PhotoURL)
}

func TestUnlinkGoogle_PasswordlessAccountRejected(t *testing.T) {
	store := newFakeUserStore()
	uid := "uid-123"
	user := store.add(&models.User{
		Email:        "jane@example.com",
		DisplayName:  "Jane",
		Role:         models.RoleUser,
		IsActive:     true,
		GoogleLinked: true,
		GoogleUID:    &uid,
	})
	svc := newIdentityServiceForTest(store, nil)

	_, err := svc.UnlinkGoogle(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrPasswordlessUnlink)
}

func TestUnlinkGoogle_NotLinked(t *testing.T) {
	store := newFakeUserStore()
	user := store.add(&models.User{
		Email:       "jane@example.com",
		Password:    "hashed",
		DisplayName: "Jane",
		Role:        models.RoleStudent,
		IsActive:    true,
	})
	svc := newIdentityServiceForTest(store, nil)

	_, err := svc.UnlinkGoogle(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrGoogleNotLinked)
}
