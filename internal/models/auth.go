package models

import (
	"time"

	"github.com/supabase-community/gotrue-go/types"
)

type Scope int

const (
	AccessScope  Scope = 0
	RefreshScope Scope = 1
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserFromTypesUser only carries the identity fields GoTrue knows about,
// the rest is filled in from the local users table.
func UserFromTypesUser(user types.User) User {
	//nolint:exhaustruct //other fields are stored locally
	return User{
		ID:    user.ID.String(),
		Email: user.Email,
	}
}
