package users_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"notesapp/internal/apperr"
	"notesapp/internal/auth"
	"notesapp/internal/users"
	"notesapp/internal/users/userstest"
)

func newTestService(t *testing.T) (*users.Service, *userstest.MemStore, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", "notesapp", 24*time.Hour)
	require.NoError(t, err)
	store := userstest.NewMemStore()
	svc, err := users.NewService(store, tokens, bcrypt.MinCost)
	require.NoError(t, err)
	return svc, store, tokens
}

func TestCreateAccountTokenVerifiesToSameEmail(t *testing.T) {
	svc, _, tokens := newTestService(t)

	user, token, err := svc.CreateAccount(context.Background(), users.CreateAccountInput{
		Name: "Amy", Email: "a@x.com", Password: "pw",
	})
	require.NoError(t, err)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, user.ID, id.ID)
	assert.Equal(t, "Amy", id.Name)
}

func TestCreateAccountHashesPassword(t *testing.T) {
	svc, store, _ := newTestService(t)

	user, _, err := svc.CreateAccount(context.Background(), users.CreateAccountInput{
		Name: "Amy", Email: "a@x.com", Password: "pw",
	})
	require.NoError(t, err)

	stored, err := store.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw")))
}

func TestCreateAccountNormalizesEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	user, _, err := svc.CreateAccount(context.Background(), users.CreateAccountInput{
		Name: " Amy ", Email: "  A@X.com ", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "Amy", user.Name)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateAccount(ctx, users.CreateAccountInput{Name: "Amy", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, _, err = svc.CreateAccount(ctx, users.CreateAccountInput{Name: "Other", Email: "A@x.com", Password: "pw2"})
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestCreateAccountConcurrentDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.CreateAccount(context.Background(), users.CreateAccountInput{
				Name: fmt.Sprintf("user%d", i), Email: "race@x.com", Password: "pw",
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.Conflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestCreateAccountValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []users.CreateAccountInput{
		{Email: "a@x.com", Password: "pw"},
		{Name: "Amy", Email: "nope", Password: "pw"},
		{Name: "Amy", Email: "a@x.com"},
	}
	for _, in := range cases {
		_, _, err := svc.CreateAccount(ctx, in)
		assert.True(t, apperr.Is(err, apperr.Validation), "%+v", in)
	}
}

func TestCreateAccountMultibytePasswordTooLong(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// 40 runes, 80 bytes
	_, _, err := svc.CreateAccount(ctx, users.CreateAccountInput{
		Name: "Amy", Email: "amy@x.com", Password: strings.Repeat("é", 40),
	})
	assert.True(t, apperr.Is(err, apperr.Validation), "got %v", err)
	_, err = store.FindByEmail(ctx, "amy@x.com")
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	// 36 runes, 72 bytes
	_, _, err = svc.CreateAccount(ctx, users.CreateAccountInput{
		Name: "Amy", Email: "amy@x.com", Password: strings.Repeat("é", 36),
	})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	created, _, err := svc.CreateAccount(ctx, users.CreateAccountInput{Name: "Amy", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, users.LoginInput{Email: "A@X.COM", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id.ID)
}

func TestLoginFailuresAreUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateAccount(ctx, users.CreateAccountInput{Name: "Amy", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	cases := []users.LoginInput{
		{Email: "a@x.com", Password: "wrong"},
		{Email: "b@x.com", Password: "pw"},
		{Email: "b@x.com", Password: "wrong"},
	}
	for _, in := range cases {
		_, _, err := svc.Login(ctx, in)
		ae, ok := apperr.As(err)
		require.True(t, ok, "%+v", in)
		assert.Equal(t, apperr.Unauthorized, ae.Type)
		assert.Equal(t, "Wrong email or password", ae.Message)
	}
}

func TestGetDeletedUserIsUnauthorized(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	user, _, err := svc.CreateAccount(ctx, users.CreateAccountInput{Name: "Amy", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amy", got.Name)

	store.Delete(user.ID)
	_, err = svc.Get(ctx, user.ID)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}
