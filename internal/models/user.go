// Package models defines the data records shared by the credential store,
// the session container, and the auth operations.
package models

import "time"

// User is the credential-free projection of an account. This is the only
// shape ever exposed through the session state or persisted under the
// active-user key.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoredUser is the variant persisted in the registered-users list. It
// carries the bcrypt hash of the account password; the hash never leaves
// the users list.
type StoredUser struct {
	User
	PasswordHash string `json:"password_hash"`
}

// Public returns the credential-free projection of the stored record.
func (u StoredUser) Public() User {
	return u.User
}

// AuthState is the in-memory session record observed by the UI layer.
//
// Invariant: IsAuthenticated == (User != nil). The session manager is the
// only writer and maintains this itself; nothing else should construct an
// AuthState with the two fields out of step.
type AuthState struct {
	User            *User
	IsLoading       bool
	IsAuthenticated bool
}
