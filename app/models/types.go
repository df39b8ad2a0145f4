package models

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidUsername reports whether s only uses letters, digits and @.+-_
// characters. Letters and digits from any script count.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// Post is a single authored text entry, optionally filed under a Group.
type Post struct {
	ID       int       `json:"id" validate:"gte=0"`
	Text     string    `json:"text" validate:"required"`
	PubDate  time.Time `json:"pub_date" validate:"required"`
	AuthorID int       `json:"author_id" validate:"required,gt=0"`
	GroupID  *int      `json:"group_id,omitempty" validate:"omitempty,gt=0"`

	// Loaded for rendering only, never persisted with the record.
	Author *User  `json:"author,omitempty" validate:"-"`
	Group  *Group `json:"group,omitempty" validate:"-"`
}

// Group is a thematic category posts may belong to.
type Group struct {
	ID          int    `json:"id" validate:"gte=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Description string `json:"description" validate:"required"`
}

// User is an account that can author posts.
type User struct {
	ID           int       `json:"id" validate:"gte=0"`
	Username     string    `json:"username" validate:"required,max=150,username"`
	FirstName    string    `json:"first_name,omitempty" validate:"max=150"`
	LastName     string    `json:"last_name,omitempty" validate:"max=150"`
	DateJoined   time.Time `json:"date_joined"`
	PasswordHash []byte    `json:"-" validate:"-"`
}
