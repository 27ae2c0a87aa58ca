// Package model defines the database entities of the API.
package model

import "time"

// User is an account record. Name and email stay unique across active and
// deleted records. A deleted user keeps its row: name and email hold the
// hex ciphertext produced at delete time, password_hash is cleared, and
// DeletedAt marks the record terminal.
//
// The declared column sizes bound client-supplied plaintext only. Sealed
// values are longer; sqlite treats declared lengths as documentation, so the
// ciphertext stores fine. Request validation enforces the limits on input.
type User struct {
	Id           int        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string     `json:"name" gorm:"size:64;uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"size:127;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;size:64;not null"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"not null;autoUpdateTime"`
	DeletedAt    *time.Time `json:"-" gorm:"index"`
}

// IsDeleted reports whether the record reached its terminal state.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}
