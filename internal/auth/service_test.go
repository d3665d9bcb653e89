package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careshare/careshare-api/internal/logging"
	"github.com/careshare/careshare-api/internal/user"
)

// fakeUserStore is an in-memory UserStore enforcing the same email
// uniqueness the database index provides
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*user.User)}
}

func (s *fakeUserStore) Create(_ context.Context, name, email, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return nil, user.ErrDuplicateEmail
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[email] = u
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) count(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return 1
	}
	return 0
}

func newTestService(t *testing.T) (*Service, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	tokens := newTestPasetoService(t)
	svc := NewService(store, tokens, logging.NewLogger(true), time.Hour)
	return svc, store
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "Ada", "ada@x.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Ada", created.Name)
	assert.Equal(t, "ada@x.com", created.Email)
	// The plaintext must never be stored
	assert.NotEqual(t, "s3cret", created.PasswordHash)

	token, err := svc.Login(ctx, "ada@x.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{name: "missing name", userName: "", email: "a@x.com", password: "pw", wantErr: ErrNameRequired},
		{name: "missing email", userName: "Ada", email: "", password: "pw", wantErr: ErrEmailRequired},
		{name: "missing password", userName: "Ada", email: "a@x.com", password: "", wantErr: ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@x.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Bea", "ada@x.com", "other")
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)

	// The failed attempt must not have written a second record
	assert.Equal(t, 1, store.count("ada@x.com"))
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@x.com", "s3cret")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "ada@x.com", "wrong")
	_, unknownEmail := svc.Login(ctx, "nobody@x.com", "s3cret")

	// Wrong password and unknown email come back as the same error
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_EmptyInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ada@x.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TokenCarriesEmailClaim(t *testing.T) {
	store := newFakeUserStore()
	tokens := newTestPasetoService(t)
	svc := NewService(store, tokens, logging.NewLogger(true), 30*time.Minute)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@x.com", "s3cret")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "ada@x.com", "s3cret")
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestLogin_NoSideEffects(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@x.com", "s3cret")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.Login(ctx, "ada@x.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, 1, store.count("ada@x.com"))
}
