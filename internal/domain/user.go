package domain

import "time"

// UserRole distinguishes back-office admins from drivers.
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleDriver UserRole = "DRIVER"
)

// User represents an operator account.
type User struct {
	ID           string
	FirstName    string
	PaternalName string
	MaternalName string
	Email        string
	PasswordHash string // bcrypt; never serialized.
	Role         UserRole
	CreatedAt    time.Time
}
