package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

var authNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestAuthService(provider *mockIdentityProvider, store *mockSessionStore) *AuthServiceImpl {
	svc := NewAuthService(provider, store, AuthConfig{RedirectURL: "https://crm.example.com/"})
	svc.now = func() time.Time { return authNow }
	return svc
}

func testSessionRecord(token string, expiresAt time.Time) *secondary.SessionRecord {
	return &secondary.SessionRecord{
		AccessToken:  token,
		RefreshToken: "refresh-" + token,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt.Unix(),
		User:         &secondary.UserRecord{ID: testUserID, Email: "ana@example.com", Name: "Ana"},
	}
}

type recordedEvent struct {
	event primary.AuthEvent
	token string
}

func recordEvents(svc primary.AuthService) *[]recordedEvent {
	var events []recordedEvent
	svc.Subscribe(func(e primary.AuthEvent, s *primary.Session) {
		token := ""
		if s != nil {
			token = s.AccessToken
		}
		events = append(events, recordedEvent{event: e, token: token})
	})
	return &events
}

func TestAuthService_SignIn(t *testing.T) {
	provider := &mockIdentityProvider{signInSession: testSessionRecord("a1", authNow.Add(time.Hour))}
	store := &mockSessionStore{}
	svc := newTestAuthService(provider, store)
	events := recordEvents(svc)

	sess, err := svc.SignIn(context.Background(), " ana@example.com ", "secret")
	require.NoError(t, err)

	assert.Equal(t, "a1", sess.AccessToken)
	assert.Equal(t, authNow.Add(time.Hour).Unix(), sess.ExpiresAt.Unix())
	assert.Equal(t, "Ana", svc.CurrentUser().Name)
	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, "a1", svc.AccessToken())
	assert.Equal(t, "a1", store.session.AccessToken)
	assert.Equal(t, []recordedEvent{{primary.AuthEventSignedIn, "a1"}}, *events)
}

func TestAuthService_SignIn_TranslatesProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"bad credentials", errors.New("400: Invalid login credentials"), primary.ErrInvalidCredentials},
		{"unconfirmed", errors.New("Email not confirmed"), primary.ErrEmailNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(&mockIdentityProvider{signInErr: tt.err}, &mockSessionStore{})
			_, err := svc.SignIn(context.Background(), "ana@example.com", "x")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, svc.IsAuthenticated())
		})
	}

	t.Run("unknown errors are wrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		svc := newTestAuthService(&mockIdentityProvider{signInErr: boom}, &mockSessionStore{})
		_, err := svc.SignIn(context.Background(), "ana@example.com", "x")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("missing credentials", func(t *testing.T) {
		svc := newTestAuthService(&mockIdentityProvider{}, &mockSessionStore{})
		_, err := svc.SignIn(context.Background(), "", "x")
		assert.EqualError(t, err, "email and password are required")
	})
}

func TestAuthService_Bootstrap(t *testing.T) {
	t.Run("no stored session", func(t *testing.T) {
		svc := newTestAuthService(&mockIdentityProvider{}, &mockSessionStore{})
		events := recordEvents(svc)

		sess, err := svc.Bootstrap(context.Background())
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, []recordedEvent{{primary.AuthEventInitialSession, ""}}, *events)
	})

	t.Run("valid stored session", func(t *testing.T) {
		provider := &mockIdentityProvider{}
		store := &mockSessionStore{session: testSessionRecord("a1", authNow.Add(time.Hour))}
		svc := newTestAuthService(provider, store)
		events := recordEvents(svc)

		sess, err := svc.Bootstrap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a1", sess.AccessToken)
		assert.Zero(t, provider.refreshCalls)
		assert.Equal(t, []recordedEvent{{primary.AuthEventInitialSession, "a1"}}, *events)
	})

	t.Run("refreshes near expiry", func(t *testing.T) {
		provider := &mockIdentityProvider{refreshSession: testSessionRecord("a2", authNow.Add(time.Hour))}
		store := &mockSessionStore{session: testSessionRecord("a1", authNow.Add(30*time.Second))}
		svc := newTestAuthService(provider, store)
		events := recordEvents(svc)

		sess, err := svc.Bootstrap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a2", sess.AccessToken)
		assert.Equal(t, "a2", store.session.AccessToken)
		assert.Equal(t, []recordedEvent{
			{primary.AuthEventTokenRefreshed, "a2"},
			{primary.AuthEventInitialSession, "a2"},
		}, *events)
	})

	t.Run("failed refresh clears the session", func(t *testing.T) {
		provider := &mockIdentityProvider{refreshErr: errors.New("Invalid Refresh Token")}
		store := &mockSessionStore{session: testSessionRecord("a1", authNow.Add(-time.Minute))}
		svc := newTestAuthService(provider, store)
		events := recordEvents(svc)

		sess, err := svc.Bootstrap(context.Background())
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Nil(t, store.session)
		assert.Equal(t, 1, store.cleared)
		assert.Equal(t, []recordedEvent{{primary.AuthEventInitialSession, ""}}, *events)
	})

	t.Run("load error", func(t *testing.T) {
		svc := newTestAuthService(&mockIdentityProvider{}, &mockSessionStore{loadErr: errors.New("disk")})
		_, err := svc.Bootstrap(context.Background())
		assert.ErrorContains(t, err, "failed to load session")
	})
}

func TestAuthService_SignUp(t *testing.T) {
	t.Run("confirmation required", func(t *testing.T) {
		provider := &mockIdentityProvider{signUpResult: &secondary.SignUpResult{
			User: &secondary.UserRecord{ID: "u2", Email: "new@example.com"},
		}}
		svc := newTestAuthService(provider, &mockSessionStore{})
		events := recordEvents(svc)

		resp, err := svc.SignUp(context.Background(), primary.SignUpRequest{Email: "new@example.com", Password: "pw", Name: "New"})
		require.NoError(t, err)
		assert.True(t, resp.ConfirmationRequired)
		assert.Nil(t, resp.Session)
		assert.Equal(t, "u2", resp.User.ID)
		assert.Equal(t, "https://crm.example.com/dashboard", provider.lastSignUp.RedirectTo)
		assert.Equal(t, "New", provider.lastSignUp.Name)
		assert.Empty(t, *events)
	})

	t.Run("auto confirmed", func(t *testing.T) {
		provider := &mockIdentityProvider{signUpResult: &secondary.SignUpResult{
			Session: testSessionRecord("a1", authNow.Add(time.Hour)),
		}}
		store := &mockSessionStore{}
		svc := newTestAuthService(provider, store)
		events := recordEvents(svc)

		resp, err := svc.SignUp(context.Background(), primary.SignUpRequest{Email: "ana@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.False(t, resp.ConfirmationRequired)
		assert.Equal(t, testUserID, resp.User.ID)
		assert.NotNil(t, store.session)
		assert.Equal(t, []recordedEvent{{primary.AuthEventSignedIn, "a1"}}, *events)
	})

	t.Run("already registered", func(t *testing.T) {
		provider := &mockIdentityProvider{signUpErr: errors.New("User already registered")}
		svc := newTestAuthService(provider, &mockSessionStore{})
		_, err := svc.SignUp(context.Background(), primary.SignUpRequest{Email: "ana@example.com", Password: "pw"})
		assert.ErrorIs(t, err, primary.ErrUserAlreadyRegistered)
	})
}

func TestAuthService_SignOut(t *testing.T) {
	provider := &mockIdentityProvider{signInSession: testSessionRecord("a1", authNow.Add(time.Hour))}
	store := &mockSessionStore{}
	svc := newTestAuthService(provider, store)
	_, err := svc.SignIn(context.Background(), "ana@example.com", "pw")
	require.NoError(t, err)
	events := recordEvents(svc)

	require.NoError(t, svc.SignOut(context.Background()))
	assert.Equal(t, []string{"a1"}, provider.signedOutTokens)
	assert.Nil(t, store.session)
	assert.False(t, svc.IsAuthenticated())
	assert.Equal(t, []recordedEvent{{primary.AuthEventSignedOut, ""}}, *events)
}

func TestAuthService_SignOut_RemoteFailureStillClearsLocally(t *testing.T) {
	provider := &mockIdentityProvider{
		signInSession: testSessionRecord("a1", authNow.Add(time.Hour)),
		signOutErr:    errors.New("network down"),
	}
	store := &mockSessionStore{}
	svc := newTestAuthService(provider, store)
	_, err := svc.SignIn(context.Background(), "ana@example.com", "pw")
	require.NoError(t, err)

	err = svc.SignOut(context.Background())
	assert.ErrorContains(t, err, "remote revoke failed")
	assert.Nil(t, store.session)
	assert.Nil(t, svc.CurrentSession())
}

func TestAuthService_SignOut_WithoutSession(t *testing.T) {
	provider := &mockIdentityProvider{}
	svc := newTestAuthService(provider, &mockSessionStore{})

	require.NoError(t, svc.SignOut(context.Background()))
	assert.Empty(t, provider.signedOutTokens)
}

func TestAuthService_ResetPassword(t *testing.T) {
	provider := &mockIdentityProvider{}
	svc := newTestAuthService(provider, &mockSessionStore{})

	require.NoError(t, svc.ResetPassword(context.Background(), "ana@example.com"))
	assert.Equal(t, "ana@example.com", provider.lastResetEmail)
	assert.Equal(t, "https://crm.example.com/reset-password", provider.lastResetRedirect)

	assert.EqualError(t, svc.ResetPassword(context.Background(), " "), "email is required")
}

func TestAuthService_Unsubscribe(t *testing.T) {
	svc := newTestAuthService(&mockIdentityProvider{}, &mockSessionStore{})

	var calls []string
	unsubA := svc.Subscribe(func(primary.AuthEvent, *primary.Session) { calls = append(calls, "a") })
	svc.Subscribe(func(primary.AuthEvent, *primary.Session) { calls = append(calls, "b") })

	_, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, calls)

	unsubA()
	unsubA()
	calls = nil
	_, err = svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, calls)
}
