package models

import (
	"net/url"
	"strings"
	"time"
)

// Validate checks the user's struct tags.
func (u *User) Validate() error {
	return validate.Struct(u)
}

// BeforeCreate sets the join date if it has not been set yet.
func (u *User) BeforeCreate(now time.Time) {
	if u.DateJoined.IsZero() {
		u.DateJoined = now
	}
}

// FullName returns "First Last", or the username when both are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) String() string {
	return u.Username
}

func (u *User) ProfileURL() string {
	return "/profile/" + url.PathEscape(u.Username) + "/"
}
