// Package models defines the server-side data model.
package models

import "time"

// User is a single credential record. The store keys records by normalized
// Email; ID is an opaque, immutable identifier served through a secondary
// index. PasswordHash is excluded from JSON so it can never leak through an
// API response.
type User struct {
	ID           string    `json:"id" db:"id" dynamodbav:"id"`
	Email        string    `json:"email" db:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" db:"password_hash" dynamodbav:"passwordHash"`
	FirstName    string    `json:"firstName" db:"first_name" dynamodbav:"firstName"`
	LastName     string    `json:"lastName" db:"last_name" dynamodbav:"lastName"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" dynamodbav:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" dynamodbav:"updatedAt"`
}

// Clone returns a deep copy of the record. Repositories hand out copies so
// callers can never mutate stored state in place.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// ProfileUpdate describes a partial update of the mutable display fields.
// A nil field is left untouched. Email, ID, CreatedAt and PasswordHash are
// not updatable through this type by construction.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// Empty reports whether the update carries no changes.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil
}
