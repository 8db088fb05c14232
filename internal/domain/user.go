package domain

import "time"

type User struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	Name          string    `db:"name" json:"name"`
	PasswordHash  string    `db:"password" json:"-"`
	EmailVerified bool      `db:"email_verified" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"-"`
}

// PublicUser is the part of a user returned to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Identity is the caller proven by a verified bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
