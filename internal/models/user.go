package models

// User is a registered account. Password is stored as submitted.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // never exposed
}
