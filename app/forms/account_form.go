package forms

import (
	"net/url"
	"strings"
)

// maxPasswordBytes is the longest password bcrypt can hash.
const maxPasswordBytes = 72

// SignupForm is the registration page.
type SignupForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required"`
}

func BindSignup(values url.Values) *SignupForm {
	return &SignupForm{
		Username:  strings.TrimSpace(values.Get("username")),
		FirstName: strings.TrimSpace(values.Get("first_name")),
		LastName:  strings.TrimSpace(values.Get("last_name")),
		Password1: values.Get("password1"),
		Password2: values.Get("password2"),
	}
}

// Validate checks field rules, the password length in bytes and that both
// passwords match.
func (f *SignupForm) Validate() Errors {
	errs := Errors{}
	check(f, errs)
	if len(f.Password1) > maxPasswordBytes {
		errs.Add("password1", "Ensure this value has at most 72 bytes.")
	}
	if f.Password2 != "" && f.Password1 != f.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
	}
	return errs
}

// LoginForm is the login page.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func BindLogin(values url.Values) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
	}
}

func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	check(f, errs)
	return errs
}
