package models

import "time"

// User is an account row. TokenVersion is the revocation counter: it starts
// at 0 and is bumped by exactly 1 on every logout, password reset and
// pre-deletion check. A token minted under an older value is dead the next
// time it is verified, with no blocklist to maintain.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	TokenVersion int64
	CreatedAt    time.Time
}
