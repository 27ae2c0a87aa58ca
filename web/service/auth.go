package service

import (
	"context"
	"strconv"

	"github.com/akraev/simple-api/config"
	"github.com/akraev/simple-api/database/model"
	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/util/random"
	"github.com/akraev/simple-api/web/cache"
)

// tokenKeyPrefix namespaces access tokens in the shared cache.
const tokenKeyPrefix = "token_"

// tokenBytes is the entropy of an issued token. The hex form is twice as
// long. 16 bytes keeps online guessing hopeless even without rate limiting.
const tokenBytes = 16

// AuthService issues and resolves opaque bearer tokens backed by the cache.
type AuthService struct {
	userService UserService
}

// Login checks the credentials against active users and issues a token.
func (s *AuthService) Login(ctx context.Context, name, password string) (string, *model.User, error) {
	user, err := s.userService.GetByCredentials(ctx, name, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(ctx, user.Id)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken stores a fresh random token for the user and returns it. Tokens
// expire after the configured TTL.
func (s *AuthService) IssueToken(ctx context.Context, userId int) (string, error) {
	key := random.Hex(tokenBytes)
	err := cache.Set(ctx, tokenKeyPrefix+key, strconv.Itoa(userId), config.GetTokenTTL())
	if err != nil {
		logger.Warning("issue token err:", err)
		return "", err
	}
	return key, nil
}

// ResolveToken returns the user id a token stands for. Absent, expired or
// malformed entries fail closed with ErrInvalidToken.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (int, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	val, err := cache.Get(ctx, tokenKeyPrefix+token)
	if err == cache.ErrMiss {
		return 0, ErrInvalidToken
	} else if err != nil {
		logger.Warning("resolve token err:", err)
		return 0, err
	}

	userId, err := strconv.Atoi(val)
	if err != nil {
		logger.Warningf("token %q maps to non-numeric user id %q", token, val)
		return 0, ErrInvalidToken
	}
	return userId, nil
}

// Authorize resolves the token and requires it to belong to the target user.
// A valid token for a different user fails with ErrForbidden regardless of
// whether the target exists.
func (s *AuthService) Authorize(ctx context.Context, token string, userId int) error {
	resolved, err := s.ResolveToken(ctx, token)
	if err != nil {
		return err
	}
	if resolved != userId {
		return ErrForbidden
	}
	return nil
}

// RevokeToken drops a token from the cache. Revoking an unknown token is not
// an error.
func (s *AuthService) RevokeToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return cache.Delete(ctx, tokenKeyPrefix+token)
}
