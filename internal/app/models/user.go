package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64     `json:"id" db:"id" example:"1"`                               // Unique identifier for the user
	Email       string    `json:"email" db:"email" example:"user@example.com"`          // User's email address
	Password    string    `json:"-" db:"password"`                                      // User's hashed password (excluded from JSON); empty for google-only accounts
	DisplayName string    `json:"displayName" db:"display_name" example:"John Doe"`     // Name shown in classrooms and task lists
	PhotoURL    *string   `json:"photoUrl,omitempty" db:"photo_url"`                    // Profile photo URL (nullable)
	Role        RoleType  `json:"role" db:"role" example:"STUDENT"`                     // User's role (STUDENT, TEACHER or USER)
	IsActive    bool      `json:"isActive" db:"is_active" example:"true"`               // Whether the user account is active
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`                            // Timestamp when the user was created
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`                            // Timestamp when the user was last updated
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`            // Timestamp of the last login (nullable)

	// Google identity link fields
	GoogleLinked        bool    `json:"googleLinked" db:"google_linked"`                             // Whether a Google identity is attached
	GoogleEmail         *string `json:"googleEmail,omitempty" db:"google_email"`                     // Email of the linked Google identity
	GoogleUID           *string `json:"googleUid,omitempty" db:"google_uid"`                         // Subject claim of the linked Google identity
	OriginalDisplayName *string `json:"originalDisplayName,omitempty" db:"original_display_name"`    // Display name before the link, restored on unlink
	OriginalPhotoURL    *string `json:"originalPhotoUrl,omitempty" db:"original_photo_url"`          // Photo URL before the link, restored on unlink
}

// HasPassword reports whether the account can authenticate with email/password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
