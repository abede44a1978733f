package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/internal/auth/store/drivers/sqlite"
	"github.com/careerhive/careerhive/pkg/idx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newUser(username, email string) domain.User {
	return domain.User{
		ID:            idx.New().String(),
		Username:      username,
		Email:         email,
		PreferredName: username,
		PasswordHash:  "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Provider:      domain.ProviderLocal,
	}
}

func TestUsers_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, domain.ProviderLocal, got.Provider)
	require.False(t, got.CreatedAt.IsZero())

	got, err = s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	got, err = s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, newUser("alice", "a1@example.com")))

	err := s.Users().CreateUser(ctx, newUser("alice", "a2@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_EmptyEmailsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, newUser("kakao-1", "")))
	require.NoError(t, s.Users().CreateUser(ctx, newUser("kakao-2", "")))

	_, err := s.Users().GetUserByEmail(ctx, "")
	require.ErrorIs(t, err, store.ErrNotFound, "empty email must never match a user")
}

func TestUsers_UpdatePreferredName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdatePreferredName(ctx, u.ID, "Alice A."))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice A.", got.PreferredName)

	require.ErrorIs(t, s.Users().UpdatePreferredName(ctx, "missing", "x"), store.ErrNotFound)
}

func TestExternalAccounts_UniquePerProviderIdentity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("bob", "bob@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	ea := domain.ExternalAccount{
		ID:         idx.New().String(),
		UserID:     u.ID,
		Provider:   domain.ProviderGoogle,
		ExternalID: "bob@gmail.com",
	}
	require.NoError(t, s.ExternalAccounts().Create(ctx, ea))

	got, err := s.ExternalAccounts().GetByProviderID(ctx, domain.ProviderGoogle, "bob@gmail.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)

	// Same identity again must be rejected, that is the idempotence guard
	dup := ea
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.ExternalAccounts().Create(ctx, dup), store.ErrAlreadyExists)

	// Same external id at a different provider is a different identity
	other := ea
	other.ID = idx.New().String()
	other.Provider = domain.ProviderNaver
	require.NoError(t, s.ExternalAccounts().Create(ctx, other))

	_, err = s.ExternalAccounts().GetByProviderID(ctx, domain.ProviderKakao, "bob@gmail.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("carol", "carol@example.com")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	require.Error(t, err)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound, "rolled-back user must not persist")
}

func TestWithTx_CommitsUserWithLink(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("dave", "")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.ExternalAccounts().Create(ctx, domain.ExternalAccount{
			ID:         idx.New().String(),
			UserID:     u.ID,
			Provider:   domain.ProviderKakao,
			ExternalID: "1234567",
		})
	})
	require.NoError(t, err)

	got, err := s.ExternalAccounts().GetByProviderID(ctx, domain.ProviderKakao, "1234567")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
}
