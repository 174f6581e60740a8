package identity

import "time"

// User represents a registered account owner.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	TokenVersion int
	CreatedAt    time.Time
}

// Credentials carries a login/registration request.
type Credentials struct {
	Email    string
	Password string
	Name     string
}
