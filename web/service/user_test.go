package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/akraev/simple-api/database"
	"github.com/akraev/simple-api/database/model"
	"github.com/akraev/simple-api/util/crypto"
	"github.com/akraev/simple-api/web/cache"

	"github.com/stretchr/testify/assert"
)

func setup() {
	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
	cache.InitRedis("")
	cache.ResetStats()
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
	cache.Close()
}

func TestUserLifecycle(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	service := UserService{}

	// Create
	user, err := service.Create(ctx, "alice", "a@x.com", "p1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, crypto.PasswordDigest("p1"), user.PasswordHash)
	assert.False(t, user.IsDeleted())

	// Duplicate name and duplicate email both fail
	_, err = service.Create(ctx, "alice", "other@x.com", "p2")
	assert.Equal(t, ErrDuplicateIdentity, err)
	_, err = service.Create(ctx, "bob", "a@x.com", "p2")
	assert.Equal(t, ErrDuplicateIdentity, err)

	// Get
	got, err := service.Get(ctx, user.Id)
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	_, err = service.Get(ctx, user.Id+100)
	assert.Equal(t, ErrNotFound, err)

	// Update applies only non-empty fields
	updated, err := service.Update(ctx, user.Id, UserPatch{Email: "alice@x.com"})
	assert.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)
	assert.Equal(t, "alice@x.com", updated.Email)

	// Password update re-runs the digest
	updated, err = service.Update(ctx, user.Id, UserPatch{Password: "p2"})
	assert.NoError(t, err)
	assert.Equal(t, crypto.PasswordDigest("p2"), updated.PasswordHash)

	// Update to a taken identity fails
	_, err = service.Create(ctx, "bob", "b@x.com", "p3")
	assert.NoError(t, err)
	_, err = service.Update(ctx, user.Id, UserPatch{Name: "bob"})
	assert.Equal(t, ErrDuplicateIdentity, err)

	// Update of a missing user fails
	_, err = service.Update(ctx, user.Id+100, UserPatch{Name: "ghost"})
	assert.Equal(t, ErrNotFound, err)
}

func TestUserViewCaching(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	service := UserService{}

	user, err := service.Create(ctx, "alice", "a@x.com", "p1")
	assert.NoError(t, err)

	// First view misses, second is served from cache with identical content
	first, err := service.View(ctx, user.Id)
	assert.NoError(t, err)
	second, err := service.View(ctx, user.Id)
	assert.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Email, second.Email)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	// A write invalidates the cached view
	_, err = service.Update(ctx, user.Id, UserPatch{Name: "alicia"})
	assert.NoError(t, err)
	fresh, err := service.View(ctx, user.Id)
	assert.NoError(t, err)
	assert.Equal(t, "alicia", fresh.Name)
}

func TestUserList(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	service := UserService{}

	for _, name := range []string{"u1", "u2", "u3"} {
		_, err := service.Create(ctx, name, name+"@x.com", "p")
		assert.NoError(t, err)
	}

	// Insertion order
	users, err := service.List(ctx, 2, 0)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].Name)
	assert.Equal(t, "u2", users[1].Name)

	users, err = service.List(ctx, 2, 2)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "u3", users[0].Name)

	// Non-positive limit falls back to the default, negative offset clamps to 0
	users, err = service.List(ctx, 0, -5)
	assert.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUserSoftDelete(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	service := UserService{}

	user, err := service.Create(ctx, "alice", "a@x.com", "p1")
	assert.NoError(t, err)

	assert.NoError(t, service.SoftDelete(ctx, user.Id))

	// Gone from reads and listing
	_, err = service.Get(ctx, user.Id)
	assert.Equal(t, ErrNotFound, err)
	_, err = service.View(ctx, user.Id)
	assert.Equal(t, ErrNotFound, err)
	users, err := service.List(ctx, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, users, 0)

	// The row survives with sealed fields and a cleared digest
	raw := &model.User{}
	err = database.GetDB().Where("id = ?", user.Id).First(raw).Error
	assert.NoError(t, err)
	assert.True(t, raw.IsDeleted())
	assert.NotEqual(t, "alice", raw.Name)
	assert.NotEqual(t, "a@x.com", raw.Email)
	assert.Empty(t, raw.PasswordHash)

	// Whoever still knows the raw password can recover the fields
	key, err := crypto.DeriveKey(crypto.PasswordDigest("p1"))
	assert.NoError(t, err)
	name, err := crypto.OpenField(key, raw.Name)
	assert.NoError(t, err)
	assert.Equal(t, "alice", name)
	email, err := crypto.OpenField(key, raw.Email)
	assert.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	// Terminal: a second delete is NotFound, not idempotent success
	assert.Equal(t, ErrNotFound, service.SoftDelete(ctx, user.Id))

	// A deleted account can never authenticate again
	_, err = service.GetByCredentials(ctx, "alice", "p1")
	assert.Equal(t, ErrNotFound, err)

	// Sealing replaced the stored name and email, so the unique indexes no
	// longer hold the plaintext identity and it may be registered again
	_, err = service.Create(ctx, "alice", "a@x.com", "p2")
	assert.NoError(t, err)
}

func TestSoftDeleteWaitsForConcurrentWriter(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	service := UserService{}

	user, err := service.Create(ctx, "alice", "a@x.com", "p1")
	assert.NoError(t, err)

	// An uncommitted update holds the write lock on the row
	tx := database.GetDB().Begin()
	assert.NoError(t, tx.Error)
	assert.NoError(t, tx.Exec("UPDATE users SET email = ? WHERE id = ?", "held@x.com", user.Id).Error)

	done := make(chan error, 1)
	go func() {
		done <- service.SoftDelete(ctx, user.Id)
	}()

	// The delete must wait for the writer, not fail fast
	select {
	case err := <-done:
		t.Fatalf("soft delete did not wait for the in-flight writer: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	assert.NoError(t, tx.Commit().Error)
	assert.NoError(t, <-done)

	// The delete went through, over the committed state
	_, err = service.Get(ctx, user.Id)
	assert.Equal(t, ErrNotFound, err)
	raw := &model.User{}
	assert.NoError(t, database.GetDB().Where("id = ?", user.Id).First(raw).Error)
	assert.True(t, raw.IsDeleted())
	assert.NotEqual(t, "held@x.com", raw.Email)
}

func TestSoftDeleteCorruptDigest(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	service := UserService{}

	user, err := service.Create(ctx, "alice", "a@x.com", "p1")
	assert.NoError(t, err)

	// Break the stored digest behind the service's back
	err = database.GetDB().Model(&model.User{}).
		Where("id = ?", user.Id).
		Update("password_hash", "not-a-digest").
		Error
	assert.NoError(t, err)

	assert.Equal(t, ErrCorruptRecord, service.SoftDelete(ctx, user.Id))

	// The record is untouched, not half-deleted
	got, err := service.Get(ctx, user.Id)
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
}
