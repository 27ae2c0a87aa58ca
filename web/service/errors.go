// Package service implements the business logic of the API. Controllers call
// into services and translate the sentinel errors below into HTTP statuses;
// no raw storage error ever crosses the controller boundary.
package service

import "github.com/akraev/simple-api/util/common"

var (
	// ErrDuplicateIdentity means the name or email is already taken by any
	// record, active or deleted.
	ErrDuplicateIdentity = common.NewErrorf("this name or email already exists")

	// ErrNotFound covers both a missing record and a credential mismatch, so
	// an authentication failure does not reveal whether the account exists.
	ErrNotFound = common.NewErrorf("user not found")

	// ErrForbidden means the token is valid but belongs to a different user
	// than the one being modified.
	ErrForbidden = common.NewErrorf("forbidden")

	// ErrInvalidToken means the bearer token is absent from the cache or
	// malformed.
	ErrInvalidToken = common.NewErrorf("invalid token")

	// ErrCorruptRecord means the stored password digest cannot serve as key
	// material. This is a server fault and should never occur in normal
	// operation.
	ErrCorruptRecord = common.NewErrorf("corrupt user record")
)
