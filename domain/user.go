// Package domain contains core concepts of the chat system.
package domain

// User is an account able to join groups and exchange messages.
// Connection handles are process-local and never stored here; presence
// lives in the runtime registry.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	Language     string // preferred language (ISO 639-1), may be empty
	PasswordHash string
}
