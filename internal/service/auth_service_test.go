package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"contactly-be/internal/entities"
	"contactly-be/internal/jwt"
	"contactly-be/internal/models"
	"contactly-be/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory stand-in for the postgres repository
type fakeUserRepo struct {
	users map[string]*entities.User // keyed by id
	next  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entities.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, username, email, passwordHash string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return nil, repository.ErrDuplicate
		}
	}
	f.next++
	user := &entities.User{
		ID:           string(rune('a' + f.next)),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*entities.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) ConfirmEmail(_ context.Context, email string) error {
	user, err := f.FindByEmail(context.Background(), email)
	if err != nil {
		return err
	}
	user.Confirmed = true
	return nil
}

func (f *fakeUserRepo) UpdateAvatar(_ context.Context, email, avatarURL string) (*entities.User, error) {
	user, err := f.FindByEmail(context.Background(), email)
	if err != nil {
		return nil, err
	}
	user.Avatar = &avatarURL
	return user, nil
}

func (f *fakeUserRepo) UpdateRefreshToken(_ context.Context, userID string, token *string) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.RefreshToken = token
	return nil
}

// fakeMailer records sent mail so tests can wait for the background send
type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	links []string
}

func (f *fakeMailer) SendVerificationEmail(to, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	f.links = append(f.links, link)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeUploader struct {
	url string
}

func (f *fakeUploader) Upload(_ context.Context, _ string, _ []byte) (string, error) {
	return f.url, nil
}

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeMailer, *jwt.JWTService) {
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	jwtService := jwt.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(repo, jwtService, mail, &fakeUploader{url: "https://img.example/avatar.png"}, "http://localhost:8080")
	return svc, repo, mail, jwtService
}

func register(t *testing.T, svc AuthService) *models.RegisterResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "jon",
		Email:    "jon@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterHashesPasswordAndMailsLink(t *testing.T) {
	svc, repo, mail, _ := newAuthFixture()

	resp := register(t, svc)
	assert.Equal(t, "jon", resp.User.Username)
	assert.False(t, resp.User.Confirmed)

	user, err := repo.FindByEmail(context.Background(), "jon@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	// the confirmation mail goes out in the background
	assert.Eventually(t, func() bool { return mail.sentCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	register(t, svc)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "jon2",
		Email:    "jon@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestConfirmEmail(t *testing.T) {
	svc, repo, _, jwtService := newAuthFixture()

	register(t, svc)

	token, err := jwtService.GenerateVerificationToken("jon@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmEmail(context.Background(), token))
	user, err := repo.FindByEmail(context.Background(), "jon@example.com")
	require.NoError(t, err)
	assert.True(t, user.Confirmed)

	// confirming twice stays a no-op
	assert.NoError(t, svc.ConfirmEmail(context.Background(), token))

	// garbage tokens are rejected
	assert.ErrorIs(t, svc.ConfirmEmail(context.Background(), "not-a-token"), jwt.ErrInvalidToken)

	// access tokens cannot confirm an email
	access, err := jwtService.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ConfirmEmail(context.Background(), access), jwt.ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	svc, repo, _, jwtService := newAuthFixture()
	ctx := context.Background()

	register(t, svc)

	loginReq := &models.LoginRequest{Email: "jon@example.com", Password: "secret123"}

	// unconfirmed accounts cannot log in
	_, err := svc.Login(ctx, loginReq)
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)

	require.NoError(t, repo.ConfirmEmail(ctx, "jon@example.com"))

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "jon@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := svc.Login(ctx, loginReq)
	require.NoError(t, err)
	assert.Equal(t, "bearer", tokens.TokenType)

	claims, err := jwtService.ParseToken(tokens.AccessToken, jwt.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "jon@example.com", claims.Email)

	// the refresh token is persisted on the user row
	user, err := repo.FindByEmail(ctx, "jon@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, tokens.RefreshToken, *user.RefreshToken)
}

func TestRefreshRotation(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	ctx := context.Background()

	register(t, svc)
	require.NoError(t, repo.ConfirmEmail(ctx, "jon@example.com"))

	tokens, err := svc.Login(ctx, &models.LoginRequest{Email: "jon@example.com", Password: "secret123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	// the old refresh token no longer matches the stored one and gets revoked
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	user, err := repo.FindByEmail(ctx, "jon@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.RefreshToken)

	// the rotated token was revoked along the way too
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestUpdateAvatar(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	register(t, svc)

	user, err := svc.UpdateAvatar(ctx, "jon@example.com", "me.png", []byte{0x89, 0x50})
	require.NoError(t, err)
	require.NotNil(t, user.Avatar)
	assert.Equal(t, "https://img.example/avatar.png", *user.Avatar)
}
