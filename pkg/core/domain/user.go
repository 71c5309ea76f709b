package domain

import "time"

// Credentials is the username/secret pair presented on every mutating call
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Complete reports whether both halves of the pair are present
func (c *Credentials) Complete() bool {
	return c != nil && c.Username != "" && c.Password != ""
}

// Profile holds the display fields of a user
type Profile struct {
	FirstName string `json:"firstName,omitempty" yaml:"firstName"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone,omitempty" yaml:"phone"`
}

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Profile      Profile   `json:"profile"`
	Joined       time.Time `json:"joined"`
	Deleted      bool      `json:"deleted,omitempty"`
	PasswordHash string    `json:"-"`
}

func (u *User) IsVisible() bool {
	return u != nil && !u.Deleted
}
