package service

import (
	"context"
	"time"

	"github.com/akraev/simple-api/database"
	"github.com/akraev/simple-api/database/model"
	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/util/crypto"
	"github.com/akraev/simple-api/web/cache"

	"gorm.io/gorm"
)

const (
	// DefaultListLimit is used when a list request passes no or a
	// non-positive limit.
	DefaultListLimit = 10

	// TTLUser bounds the staleness window of a cached user read in case a
	// crash loses the write-side invalidation.
	TTLUser = 10 * time.Minute
)

// UserPatch carries a partial update. A field is applied iff it is non-empty.
type UserPatch struct {
	Name     string
	Email    string
	Password string
}

// UserService owns user records: creation with password digesting, lookups,
// partial updates, listing and the recoverable soft delete.
type UserService struct{}

func userCacheKey(id int) string {
	return cache.MakeKey("read_user", map[string]any{"id": id})
}

// Create registers a new user. The raw password is digested before storage
// and never persisted or logged.
func (s *UserService) Create(ctx context.Context, name, email, password string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: crypto.PasswordDigest(password),
	}
	err := db.WithContext(ctx).Create(user).Error
	if database.IsDuplicate(err) {
		return nil, ErrDuplicateIdentity
	} else if err != nil {
		logger.Warning("create user err:", err)
		return nil, err
	}
	return user, nil
}

// Get returns an active user by id.
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		logger.Warning("get user err:", err)
		return nil, err
	}
	return user, nil
}

// View is the cached read of Get. A hit serves the serialized record from the
// cache; a miss reads the database and fills the cache.
func (s *UserService) View(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	err := cache.GetOrSet(ctx, userCacheKey(id), user, TTLUser, func() (any, error) {
		u, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByCredentials returns the active user whose stored digest matches the
// supplied password. Unknown name and wrong password are indistinguishable.
func (s *UserService) GetByCredentials(ctx context.Context, name, password string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.WithContext(ctx).
		Where("name = ? AND password_hash = ? AND deleted_at IS NULL", name, crypto.PasswordDigest(password)).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		logger.Warning("check credentials err:", err)
		return nil, err
	}
	return user, nil
}

// Update applies the non-empty fields of patch to an active user and
// invalidates the cached read. A password change re-runs the digest.
func (s *UserService) Update(ctx context.Context, id int, patch UserPatch) (*model.User, error) {
	db := database.GetDB()

	toUpdate := map[string]any{}
	if patch.Name != "" {
		toUpdate["name"] = patch.Name
	}
	if patch.Email != "" {
		toUpdate["email"] = patch.Email
	}
	if patch.Password != "" {
		toUpdate["password_hash"] = crypto.PasswordDigest(patch.Password)
	}

	if len(toUpdate) > 0 {
		toUpdate["updated_at"] = time.Now().UTC()
		result := db.WithContext(ctx).
			Model(&model.User{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(toUpdate)
		if database.IsDuplicate(result.Error) {
			return nil, ErrDuplicateIdentity
		} else if result.Error != nil {
			logger.Warning("update user err:", result.Error)
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}

		if err := cache.Delete(ctx, userCacheKey(id)); err != nil {
			logger.Warningf("Failed to invalidate cache for user %d: %v", id, err)
		}
	}

	return s.Get(ctx, id)
}

// List returns active users ordered by insertion. A non-positive limit falls
// back to DefaultListLimit, a negative offset clamps to 0.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	db := database.GetDB()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var users []model.User
	err := db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&users).
		Error
	if err != nil {
		logger.Warning("list users err:", err)
		return nil, err
	}
	return users, nil
}

// SoftDelete makes a user record terminal: name and email are overwritten
// with ciphertext keyed by the stored password digest, the digest is cleared
// and deleted_at is set. The original values stay recoverable only for
// someone who can reproduce the raw password.
//
// The read and the overwrite run in one transaction. sqlite holds the write
// lock for the whole transaction, which gives the select-for-update exclusion
// the plaintext read needs against a concurrent update or delete.
func (s *UserService) SoftDelete(ctx context.Context, id int) error {
	db := database.GetDB()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &model.User{}
		err := tx.Where("id = ? AND deleted_at IS NULL", id).
			First(user).
			Error
		if database.IsNotFound(err) {
			return ErrNotFound
		} else if err != nil {
			logger.Warning("delete user err:", err)
			return err
		}

		key, err := crypto.DeriveKey(user.PasswordHash)
		if err != nil {
			logger.Errorf("user %d has unusable password digest, refusing delete: %v", id, err)
			return ErrCorruptRecord
		}

		sealedName, err := crypto.SealField(key, user.Name)
		if err != nil {
			return err
		}
		sealedEmail, err := crypto.SealField(key, user.Email)
		if err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"name":          sealedName,
				"email":         sealedEmail,
				"password_hash": "",
				"deleted_at":    time.Now().UTC(),
			}).
			Error
	})
	if err != nil {
		return err
	}

	if err := cache.Delete(ctx, userCacheKey(id)); err != nil {
		logger.Warningf("Failed to invalidate cache for user %d: %v", id, err)
	}
	return nil
}
