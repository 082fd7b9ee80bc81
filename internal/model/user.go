package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Handlers define their own response types so the
// password hash never leaves the server.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name chosen at registration.
//  Email        – unique email address (lower case).
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
