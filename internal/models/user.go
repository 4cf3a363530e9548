package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the users table. Optional profile columns are nullable.
type User struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Name         *string   `json:"name" gorm:"size:255"`
	Bio          *string   `json:"bio" gorm:"size:1000"`
	Image        *string   `json:"image" gorm:"size:1000"`
	Location     *string   `json:"location" gorm:"size:255"`
	Website      *string   `json:"website" gorm:"size:255"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// NewUser carries everything needed to insert a user. PasswordHash is already hashed.
type NewUser struct {
	Email        string
	Username     string
	PasswordHash string
	Name         string
	Image        *string
}

// Credentials is the minimal lookup used at login and for duplicate checks.
type Credentials struct {
	ID           string
	PasswordHash string
}

// UserProfile is the private profile returned by /auth/me.
type UserProfile struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Image    *string `json:"image"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
}

// UserCompact is the public author/creator shape embedded in posts and notifications.
type UserCompact struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

// ProfileCounts holds the aggregate counts of a public profile.
type ProfileCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Posts     int64 `json:"posts"`
}

// PublicProfile is a user's public page.
type PublicProfile struct {
	ID        string        `json:"id"`
	Name      *string       `json:"name"`
	Username  string        `json:"username"`
	Image     *string       `json:"image"`
	Bio       *string       `json:"bio"`
	Location  *string       `json:"location"`
	Website   *string       `json:"website"`
	CreatedAt time.Time     `json:"createdAt"`
	Count     ProfileCounts `json:"_count"`
}

// FollowerCount is the count block of a suggestion.
type FollowerCount struct {
	Followers int64 `json:"followers"`
}

// SuggestedUser is one entry of the "who to follow" list.
type SuggestedUser struct {
	ID       string        `json:"id"`
	Name     *string       `json:"name"`
	Username string        `json:"username"`
	Image    *string       `json:"image"`
	Count    FollowerCount `json:"_count"`
}

// ProfileUpdate lists the settable profile fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Bio      *string `json:"bio" validate:"omitempty,max=1000"`
	Image    *string `json:"image" validate:"omitempty,max=1000"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	Website  *string `json:"website" validate:"omitempty,max=255"`
}

// Columns returns the column/value pairs present in the update.
func (u ProfileUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Bio != nil {
		cols["bio"] = *u.Bio
	}
	if u.Image != nil {
		cols["image"] = *u.Image
	}
	if u.Location != nil {
		cols["location"] = *u.Location
	}
	if u.Website != nil {
		cols["website"] = *u.Website
	}
	return cols
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Username string `json:"username" validate:"required,min=3,max=255,excludes=@"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// LoginRequest is the form body of POST /auth/token. Username may hold an email.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// FirebaseLoginRequest exchanges a Firebase ID token for a local bearer token.
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// TokenResponse is the OAuth2-style token answer.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// JwtCustomClaims are the bearer token claims; the subject is the user id.
type JwtCustomClaims struct {
	jwt.RegisteredClaims
}
