package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	pkgerrors "qaforum/pkg/errors"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 30
	passwordMinLength = 6
	bioMaxLength      = 200

	bcryptCost = 12
)

// User is a registered forum member. Users are never hard-deleted.
// Reputation is derived on demand from vote sums over the user's content,
// never stored authoritatively.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser creates a user with a bcrypt-hashed password
func NewUser(username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if utf8.RuneCountInString(username) < usernameMinLength || utf8.RuneCountInString(username) > usernameMaxLength {
		return nil, pkgerrors.NewValidationError("username must be between 3 and 30 characters")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.NewValidationError("a valid email is required")
	}
	if utf8.RuneCountInString(password) < passwordMinLength {
		return nil, pkgerrors.NewValidationError("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to hash password").WithCause(err)
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword verifies a candidate password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UpdateProfile replaces the editable profile fields, leaving blanks
// untouched. Uniqueness of username/email is enforced by the repository.
func (u *User) UpdateProfile(username, email, bio, avatar string) error {
	if username != "" {
		username = strings.TrimSpace(username)
		if utf8.RuneCountInString(username) < usernameMinLength || utf8.RuneCountInString(username) > usernameMaxLength {
			return pkgerrors.NewValidationError("username must be between 3 and 30 characters")
		}
		u.Username = username
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if !strings.Contains(email, "@") {
			return pkgerrors.NewValidationError("a valid email is required")
		}
		u.Email = email
	}
	if bio != "" {
		if utf8.RuneCountInString(bio) > bioMaxLength {
			return pkgerrors.NewValidationError("bio must be at most 200 characters")
		}
		u.Bio = bio
	}
	if avatar != "" {
		u.Avatar = avatar
	}

	u.UpdatedAt = time.Now().UTC()
	return nil
}
