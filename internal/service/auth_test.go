package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yupiflow/admin-gateway/internal/domain/audit"
	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
	apperrors "github.com/yupiflow/admin-gateway/internal/errors"
	mockauth "github.com/yupiflow/admin-gateway/internal/mocks/auth"
	"github.com/yupiflow/admin-gateway/internal/testutil"
)

type authFixture struct {
	svc       *AuthService
	exchanger *mockauth.MockExchanger
	sessions  *mockauth.MemorySessionStore
	audit     *mockauth.RecordingAudit
	now       time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		exchanger: mockauth.NewMockExchanger(),
		sessions:  mockauth.NewMemorySessionStore(),
		audit:     &mockauth.RecordingAudit{},
		now:       testutil.TestTime(),
	}
	f.svc = NewAuthService(AuthServiceOptions{
		Exchanger: f.exchanger,
		Sessions:  f.sessions,
		Audit:     f.audit,
		Now:       testutil.FixedTimeFunc(f.now),
	})
	return f
}

func TestAuthenticate_CreatesAuthorizedSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	session, err := f.svc.Authenticate(ctx, "webmaster@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, domainauth.RoleWebmaster, session.Role)
	assert.True(t, session.Authorized)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.Equal(t, f.now.Add(720*time.Hour), session.ExpiresAt)

	// Persisted under the same ID
	stored, err := f.sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, *session, stored)

	assert.Equal(t, []audit.Kind{audit.KindSignIn}, f.audit.Kinds())
}

func TestAuthenticate_RejectsNonWebmasterRole(t *testing.T) {
	for _, role := range []domainauth.Role{domainauth.RoleCustomer, domainauth.RoleCourier} {
		t.Run(string(role), func(t *testing.T) {
			f := newAuthFixture(t)
			f.exchanger.DefaultIdentity.Role = role

			session, err := f.svc.Authenticate(context.Background(), "someone@example.com", "valid-secret")
			require.ErrorIs(t, err, ErrAuthenticationFailed)
			assert.Nil(t, session)

			// Valid credentials, wrong role: no session may exist.
			assert.Equal(t, 0, f.sessions.Len())
			assert.Equal(t, []audit.Kind{audit.KindSignInDenied}, f.audit.Kinds())
		})
	}
}

func TestAuthenticate_BadCredentialsIndistinguishableFromWrongRole(t *testing.T) {
	badCreds := newAuthFixture(t)
	badCreds.exchanger.ExchangeFunc = func(context.Context, domainauth.Credentials) (domainauth.Identity, error) {
		return domainauth.Identity{}, apperrors.Unauthorized("invalid credentials")
	}
	_, errCreds := badCreds.svc.Authenticate(context.Background(), "x", "y")

	wrongRole := newAuthFixture(t)
	wrongRole.exchanger.DefaultIdentity.Role = domainauth.RoleCustomer
	_, errRole := wrongRole.svc.Authenticate(context.Background(), "x", "y")

	require.ErrorIs(t, errCreds, ErrAuthenticationFailed)
	require.ErrorIs(t, errRole, ErrAuthenticationFailed)
	assert.Equal(t, errCreds.Error(), errRole.Error())
}

func TestValidToken_FreshTokenSkipsRefresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	session, err := f.svc.Authenticate(ctx, "webmaster@example.com", "secret")
	require.NoError(t, err)

	token, err := f.svc.ValidToken(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, 0, f.exchanger.RefreshCalls())
}

func TestValidToken_ExpiredTokenRefreshes(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	session := domainauth.Session{
		ID:           "sess-1",
		UserID:       "user-1",
		Role:         domainauth.RoleWebmaster,
		AccessToken:  "stale-access",
		RefreshToken: "refresh-1",
		ExpiresAt:    f.now.Add(-time.Minute),
		Authorized:   true,
	}
	require.NoError(t, f.sessions.Save(ctx, session))

	token, err := f.svc.ValidToken(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "access-refreshed", token)
	assert.Equal(t, 1, f.exchanger.RefreshCalls())

	updated, err := f.sessions.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "access-refreshed", updated.AccessToken)
	assert.Equal(t, "refresh-rotated", updated.RefreshToken)
	assert.Equal(t, f.now.Add(720*time.Hour), updated.ExpiresAt)
	assert.False(t, updated.RefreshFailed)
	assert.Contains(t, f.audit.Kinds(), audit.KindTokenRefresh)
}

func TestValidToken_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.exchanger.RefreshFunc = func(context.Context, string) (string, string, error) {
		return "new-access", "", nil
	}

	session := domainauth.Session{
		ID:           "sess-1",
		RefreshToken: "keep-me",
		ExpiresAt:    f.now.Add(-time.Minute),
		Authorized:   true,
	}
	require.NoError(t, f.sessions.Save(ctx, session))

	_, err := f.svc.ValidToken(ctx, "sess-1")
	require.NoError(t, err)

	updated, err := f.sessions.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "keep-me", updated.RefreshToken)
}

func TestValidToken_ConcurrentCallsShareOneRefresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	release := make(chan struct{})
	f.exchanger.RefreshFunc = func(context.Context, string) (string, string, error) {
		<-release
		return "shared-access", "shared-refresh", nil
	}

	session := domainauth.Session{
		ID:           "sess-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    f.now.Add(-time.Minute),
		Authorized:   true,
	}
	require.NoError(t, f.sessions.Save(ctx, session))

	const callers = 8
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i], errs[i] = f.svc.ValidToken(ctx, "sess-1")
		}()
	}

	// Give every caller time to pile up behind the in-flight exchange.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared-access", tokens[i])
	}
	assert.Equal(t, 1, f.exchanger.RefreshCalls())
}

func TestValidToken_RefreshFailureFailsOpen(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.exchanger.RefreshFunc = func(context.Context, string) (string, string, error) {
		return "", "", errors.New("backend down")
	}

	session := domainauth.Session{
		ID:           "sess-1",
		UserID:       "user-1",
		AccessToken:  "stale-access",
		RefreshToken: "refresh-1",
		ExpiresAt:    f.now.Add(-time.Minute),
		Authorized:   true,
	}
	require.NoError(t, f.sessions.Save(ctx, session))

	// The stale token comes back without error; the caller's own backend
	// call is what surfaces the 401.
	token, err := f.svc.ValidToken(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "stale-access", token)

	updated, err := f.sessions.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, updated.RefreshFailed)
	assert.Contains(t, f.audit.Kinds(), audit.KindRefreshFailed)
}

func TestValidToken_UnknownSession(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.ValidToken(context.Background(), "nope")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEndSession_RevokesAndDeletes(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	session, err := f.svc.Authenticate(ctx, "webmaster@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, f.svc.EndSession(ctx, session.ID))

	assert.Equal(t, 1, f.exchanger.RevokeCalls())
	assert.Equal(t, "access-1", f.exchanger.RevokedToken())
	assert.Equal(t, 0, f.sessions.Len())
	assert.Contains(t, f.audit.Kinds(), audit.KindSignOut)
}

func TestEndSession_RevokeFailureStillDeletes(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.exchanger.RevokeFunc = func(context.Context, string) error {
		return errors.New("backend unreachable")
	}

	session, err := f.svc.Authenticate(ctx, "webmaster@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, f.svc.EndSession(ctx, session.ID))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestEndSession_MissingSessionIsNoop(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.EndSession(context.Background(), "already-gone"))
	assert.Equal(t, 0, f.exchanger.RevokeCalls())
}

func TestAuthenticate_EmptyCredentials(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Authenticate(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, f.exchanger.ExchangeCalls())
}
