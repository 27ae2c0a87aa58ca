package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginAndResolve(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	userService := UserService{}
	authService := AuthService{}

	user, err := userService.Create(ctx, "alice", "a@x.com", "p1")
	assert.NoError(t, err)

	token, loggedIn, err := authService.Login(ctx, "alice", "p1")
	assert.NoError(t, err)
	assert.Equal(t, user.Id, loggedIn.Id)
	assert.Len(t, token, 2*tokenBytes)

	resolved, err := authService.ResolveToken(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, user.Id, resolved)

	// Wrong password and unknown user are the same failure
	_, _, err = authService.Login(ctx, "alice", "wrong")
	assert.Equal(t, ErrNotFound, err)
	_, _, err = authService.Login(ctx, "nobody", "p1")
	assert.Equal(t, ErrNotFound, err)
}

func TestResolveFailsClosed(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	authService := AuthService{}

	_, err := authService.ResolveToken(ctx, "")
	assert.Equal(t, ErrInvalidToken, err)

	_, err = authService.ResolveToken(ctx, "deadbeefdeadbeefdeadbeefdeadbeef")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestAuthorize(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	userService := UserService{}
	authService := AuthService{}

	alice, err := userService.Create(ctx, "alice", "a@x.com", "p1")
	assert.NoError(t, err)
	bob, err := userService.Create(ctx, "bob", "b@x.com", "p2")
	assert.NoError(t, err)

	token, _, err := authService.Login(ctx, "alice", "p1")
	assert.NoError(t, err)

	assert.NoError(t, authService.Authorize(ctx, token, alice.Id))

	// Someone else's account, existing or not, is Forbidden rather than NotFound
	assert.Equal(t, ErrForbidden, authService.Authorize(ctx, token, bob.Id))
	assert.Equal(t, ErrForbidden, authService.Authorize(ctx, token, bob.Id+100))

	// Garbage token is InvalidToken, not Forbidden
	assert.Equal(t, ErrInvalidToken, authService.Authorize(ctx, "bogus", alice.Id))
}

func TestRevokeToken(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	userService := UserService{}
	authService := AuthService{}

	_, err := userService.Create(ctx, "alice", "a@x.com", "p1")
	assert.NoError(t, err)

	token, _, err := authService.Login(ctx, "alice", "p1")
	assert.NoError(t, err)

	assert.NoError(t, authService.RevokeToken(ctx, token))
	_, err = authService.ResolveToken(ctx, token)
	assert.Equal(t, ErrInvalidToken, err)

	// Revoking twice or revoking nonsense is not an error
	assert.NoError(t, authService.RevokeToken(ctx, token))
	assert.NoError(t, authService.RevokeToken(ctx, ""))
}
