package domain

// User is an account allowed to sign in. PasswordHash holds a bcrypt hash.
type User struct {
	Username     string
	PasswordHash string
}
