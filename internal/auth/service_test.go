package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/models"
	"github.com/dmitrijs2005/authvault/internal/session"
	"github.com/dmitrijs2005/authvault/internal/store"
)

// ---- helpers ----

func newTestService(t *testing.T) (*Service, *session.Manager, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	log := logging.NewDefault("error")
	sess := session.NewManager(st, log)
	sess.Load(context.Background())
	// MinCost keeps the bcrypt work negligible in tests.
	svc := NewService(st, sess, log, []byte("test-secret"), bcrypt.MinCost)
	return svc, sess, st
}

func storedUsers(t *testing.T, st store.Store) []models.StoredUser {
	t.Helper()
	raw, err := st.Get(context.Background(), store.KeyUsers)
	require.NoError(t, err)
	if raw == nil {
		return nil
	}
	var users []models.StoredUser
	require.NoError(t, json.Unmarshal(raw, &users))
	return users
}

func activeUser(t *testing.T, st store.Store) map[string]any {
	t.Helper()
	raw, err := st.Get(context.Background(), store.KeyUser)
	require.NoError(t, err)
	require.NotNil(t, raw)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

// ---- signup ----

func TestSignup_NewEmail_Succeeds(t *testing.T) {
	svc, sess, st := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ann", "ann@example.com", "secret1"))

	users := storedUsers(t, st)
	require.Len(t, users, 1, "user count must increase by exactly one")
	assert.Equal(t, "ann@example.com", users[0].Email)
	assert.Equal(t, "Ann", users[0].Name)
	assert.NotEmpty(t, users[0].ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("secret1")))

	snap := sess.Snapshot()
	require.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Err)
	assert.Equal(t, "ann@example.com", snap.User.Email)
}

func TestSignup_ActiveUserEntryCarriesNoCredentials(t *testing.T) {
	svc, _, st := newTestService(t)

	require.NoError(t, svc.Signup(context.Background(), "Ann", "ann@example.com", "secret1"))

	entry := activeUser(t, st)
	_, hasHash := entry["password_hash"]
	assert.False(t, hasHash, "the active user entry must not contain credential material")
	_, hasPlain := entry["password"]
	assert.False(t, hasPlain)
}

func TestSignup_NormalizesNameAndEmail(t *testing.T) {
	svc, sess, _ := newTestService(t)

	require.NoError(t, svc.Signup(context.Background(), "  Ann  ", "  Ann@Example.COM ", "secret1"))

	snap := sess.Snapshot()
	assert.Equal(t, "Ann", snap.User.Name)
	assert.Equal(t, "ann@example.com", snap.User.Email)
}

func TestSignup_DuplicateEmail_FailsAndListUnchanged(t *testing.T) {
	svc, sess, st := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ann", "ann@example.com", "secret1"))
	before := storedUsers(t, st)

	err := svc.Signup(ctx, "Another Ann", "Ann@Example.com", "different1")
	require.ErrorIs(t, err, ErrDuplicateUser)

	assert.Equal(t, before, storedUsers(t, st), "persisted list must be unchanged")
	assert.Equal(t, "User with this email already exists", sess.Snapshot().Err)
}

func TestSignup_ValidationMessagesAggregate(t *testing.T) {
	svc, sess, _ := newTestService(t)

	err := svc.Signup(context.Background(), "  ", "not-an-email", "short")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t,
		"Name is required, Invalid email format, Password must be at least 6 characters long",
		verr.Error())
	assert.Equal(t, verr.Error(), sess.Snapshot().Err)
	assert.False(t, sess.Snapshot().IsAuthenticated)
}

func TestSignup_PasswordLengthBoundary(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// Length 5 fails with the length-specific message.
	err := svc.Signup(ctx, "Ann", "ann@example.com", "abcde")
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 6 characters long", err.Error())

	// Length exactly 6 passes.
	require.NoError(t, svc.Signup(ctx, "Ann", "ann@example.com", "abcdef"))
}

func TestSignup_ConcurrentDoubleSubmit_ExactlyOneWins(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Signup(ctx, "Ann", "ann@example.com", "secret1")
		}(i)
	}
	wg.Wait()

	var okCount, dupCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, ErrDuplicateUser):
			dupCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactly one signup must succeed")
	assert.Equal(t, 1, dupCount)
	assert.Len(t, storedUsers(t, st), 1)
}

// ---- login ----

func TestLogin_CorrectCredentials_Authenticates(t *testing.T) {
	svc, sess, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ann", "ann@example.com", "secret1"))
	require.NoError(t, svc.Logout(ctx))

	require.NoError(t, svc.Login(ctx, "ann@example.com", "secret1"))

	snap := sess.Snapshot()
	require.True(t, snap.IsAuthenticated)
	assert.Equal(t, "ann@example.com", snap.User.Email)
	assert.Empty(t, snap.Err)
}

func TestLogin_RoundTripWithMixedCaseEmail(t *testing.T) {
	svc, sess, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ann", "Ann@Example.com", "secret1"))
	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Login(ctx, "ann@example.com", "secret1"))

	assert.True(t, sess.Snapshot().IsAuthenticated)
}

func TestLogin_ExposedUserHasNoCredentials(t *testing.T) {
	svc, sess, st := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ann", "ann@example.com", "secret1"))
	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Login(ctx, "ann@example.com", "secret1"))

	// The session exposes the credential-free projection by type.
	u := sess.Snapshot().User
	require.NotNil(t, u)

	// And the persisted active-user entry carries no hash either.
	entry := activeUser(t, st)
	_, hasHash := entry["password_hash"]
	assert.False(t, hasHash)
}

func TestLogin_UnregisteredEmail_Fails(t *testing.T) {
	svc, sess, _ := newTestService(t)

	err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	snap := sess.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	assert.Equal(t, "Invalid email or password", snap.Err)
}

func TestLogin_WrongPassword_Fails(t *testing.T) {
	svc, sess, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ann", "ann@example.com", "secret1"))
	require.NoError(t, svc.Logout(ctx))

	err := svc.Login(ctx, "ann@example.com", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, sess.Snapshot().IsAuthenticated)
}

func TestLogin_ValidationFailure(t *testing.T) {
	svc, sess, _ := newTestService(t)

	err := svc.Login(context.Background(), "not-an-email", "")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid email format, Password is required", verr.Error())
	assert.Equal(t, verr.Error(), sess.Snapshot().Err)
}

func TestLogin_PersistsFreshToken(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ann", "ann@example.com", "secret1"))
	first, err := st.Get(ctx, store.KeyToken)
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Login(ctx, "ann@example.com", "secret1"))

	second, err := st.Get(ctx, store.KeyToken)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first, second, "each login mints a fresh token")
}

func TestLogin_UnparseableUsersList_TreatedAsEmpty(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, store.KeyUsers, []byte("{broken")))

	err := svc.Login(ctx, "ann@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

// ---- logout ----

func TestLogout_ClearsSessionAndStorage(t *testing.T) {
	svc, sess, st := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ann", "ann@example.com", "secret1"))
	require.NoError(t, svc.Logout(ctx))

	snap := sess.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Err)

	raw, err := st.Get(ctx, store.KeyUser)
	require.NoError(t, err)
	assert.Nil(t, raw)
	raw, err = st.Get(ctx, store.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestLogout_StorageFailure_StillLogsOut(t *testing.T) {
	log := logging.NewDefault("error")
	st := failingStore{}
	sess := session.NewManager(st, log)
	sess.SetAuthenticated(&models.User{ID: "x", Email: "x@example.com"})
	svc := NewService(st, sess, log, []byte("test-secret"), bcrypt.MinCost)

	require.NoError(t, svc.Logout(context.Background()), "logout cannot fail from the caller's perspective")

	snap := sess.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsAuthenticated)
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("disk on fire")
}

func (failingStore) Remove(ctx context.Context, key string) error {
	return errors.New("disk on fire")
}

func (f failingStore) Update(ctx context.Context, fn func(ctx context.Context, s store.Store) error) error {
	return errors.New("disk on fire")
}

// ---- dual-channel error reporting / ClearError ----

func TestClearError_EmptiesSlot(t *testing.T) {
	svc, sess, _ := newTestService(t)

	_ = svc.Login(context.Background(), "nobody@example.com", "pw")
	require.NotEmpty(t, sess.Snapshot().Err)

	svc.ClearError()
	assert.Empty(t, sess.Snapshot().Err)
}

func TestLogin_StorageFailure_SurfacesOnBothChannels(t *testing.T) {
	log := logging.NewDefault("error")
	st := failingStore{}
	sess := session.NewManager(st, log)
	svc := NewService(st, sess, log, []byte("test-secret"), bcrypt.MinCost)

	err := svc.Login(context.Background(), "ann@example.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, err.Error(), sess.Snapshot().Err)
	assert.False(t, sess.Snapshot().IsAuthenticated)
}

// ---- ordering ----

func TestLogin_FirstMatchWins(t *testing.T) {
	svc, sess, st := newTestService(t)
	ctx := context.Background()

	// Two records with the same email can only arise outside the signup
	// path; the scan contract is still first-match-wins.
	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		require.NoError(t, err)
		return string(h)
	}
	users := []models.StoredUser{
		{User: models.User{ID: "first", Email: "dup@example.com", CreatedAt: time.Now()}, PasswordHash: hash("secret1")},
		{User: models.User{ID: "second", Email: "dup@example.com", CreatedAt: time.Now()}, PasswordHash: hash("secret1")},
	}
	raw, err := json.Marshal(users)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, store.KeyUsers, raw))

	require.NoError(t, svc.Login(ctx, "dup@example.com", "secret1"))
	assert.Equal(t, "first", sess.Snapshot().User.ID)
}
