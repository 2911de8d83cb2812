package rest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/crm/internal/adapters/rest"
	"github.com/example/crm/internal/ports/secondary"
)

func TestIdentityProvider_SignIn(t *testing.T) {
	f, srv := newFakeBackend(t)
	f.addUser("ana@example.com", "s3cret", "Ana")
	p := rest.NewIdentityProvider(newTestClient(t, srv))
	ctx := context.Background()

	sess, err := p.SignInWithPassword(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "access-ana@example.com", sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)
	assert.Equal(t, int64(1900000000), sess.ExpiresAt)
	require.NotNil(t, sess.User)
	assert.Equal(t, "Ana", sess.User.Name)
	assert.True(t, sess.User.EmailConfirmed)

	_, err = p.SignInWithPassword(ctx, "ana@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestIdentityProvider_Refresh(t *testing.T) {
	f, srv := newFakeBackend(t)
	f.addUser("ana@example.com", "s3cret", "Ana")
	p := rest.NewIdentityProvider(newTestClient(t, srv))
	ctx := context.Background()

	sess, err := p.SignInWithPassword(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	next, err := p.RefreshSession(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.RefreshToken, next.RefreshToken)

	_, err = p.RefreshSession(ctx, sess.RefreshToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Refresh Token Not Found")
}

func TestIdentityProvider_SignUpRequiresConfirmation(t *testing.T) {
	f, srv := newFakeBackend(t)
	p := rest.NewIdentityProvider(newTestClient(t, srv))

	res, err := p.SignUp(context.Background(), secondary.SignUpRecord{
		Email: "new@example.com", Password: "pw", Name: "New", RedirectTo: "http://localhost:5173/dashboard",
	})
	require.NoError(t, err)
	assert.Nil(t, res.Session)
	require.NotNil(t, res.User)
	assert.Equal(t, "New", res.User.Name)
	assert.False(t, res.User.EmailConfirmed)
	assert.Equal(t, "http://localhost:5173/dashboard", f.lastRedirect)

	_, err = p.SignInWithPassword(context.Background(), "new@example.com", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email not confirmed")
}

func TestIdentityProvider_SignUpAutoConfirm(t *testing.T) {
	f, srv := newFakeBackend(t)
	f.autoConfirm = true
	p := rest.NewIdentityProvider(newTestClient(t, srv))

	res, err := p.SignUp(context.Background(), secondary.SignUpRecord{Email: "new@example.com", Password: "pw", Name: "New"})
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.Equal(t, res.Session.User, res.User)
	assert.Equal(t, "new@example.com", res.User.Email)

	_, err = p.SignUp(context.Background(), secondary.SignUpRecord{Email: "new@example.com", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User already registered")
}

func TestIdentityProvider_SessionEndpointsUseAccessToken(t *testing.T) {
	f, srv := newFakeBackend(t)
	f.addUser("ana@example.com", "s3cret", "Ana")
	p := rest.NewIdentityProvider(newTestClient(t, srv))
	ctx := context.Background()

	user, err := p.GetUser(ctx, "access-ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "Bearer access-ana@example.com", f.lastAuth)

	require.NoError(t, p.SignOut(ctx, "access-ana@example.com"))
	assert.Equal(t, []string{"ana@example.com"}, f.loggedOut)

	assert.Error(t, p.SignOut(ctx, "garbage"))
}

func TestIdentityProvider_ResetPassword(t *testing.T) {
	f, srv := newFakeBackend(t)
	p := rest.NewIdentityProvider(newTestClient(t, srv))

	require.NoError(t, p.ResetPasswordForEmail(context.Background(), "ana@example.com", "http://localhost:5173/reset-password"))
	assert.Equal(t, "http://localhost:5173/reset-password", f.lastRedirect)
}
