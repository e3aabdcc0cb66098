package domain

import "time"

type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       RoleID    `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Author is the public projection of a user embedded in lessons and forum posts.
type Author struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// AccountPatch lists the account fields a caller may change; nil means unchanged.
type AccountPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
}
