package entity

import "github.com/vinopick/backend/pkg/enum"

type UserRole string

var (
	RoleUser     = enum.New(UserRole("user"), "user")
	RoleReviewer = enum.New(UserRole("reviewer"), "reviewer")
	RoleAdmin    = enum.New(UserRole("admin"), "admin")
)

// ReviewerRoles are the roles allowed to act on the review queue.
var ReviewerRoles = []UserRole{RoleReviewer, RoleAdmin}

type User struct {
	Base

	Nickname string
	Email    string   `gorm:"uniqueIndex;size:255"`
	Role     UserRole `gorm:"size:16;default:user"`

	// Point is a cached balance. It always equals the signed sum of the user's
	// PointHistory rows.
	Point int64 `gorm:"not null;default:0"`
}
