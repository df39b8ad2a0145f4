package controllers

import (
	"errors"
	"net/http"
	"strings"

	"yatube/app/forms"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/services"
	"yatube/app/views"

	"go.uber.org/zap"
)

const invalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// AuthController handles login, logout and signup.
type AuthController struct {
	base
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService, renderer *views.Renderer, logger *zap.Logger) *AuthController {
	return &AuthController{
		base: newBase(renderer, logger),
		auth: auth,
	}
}

// Login shows the login form and, on POST, starts a session.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ac.renderLogin(w, r, "", r.URL.Query().Get("next"), forms.Errors{})
		return
	}

	values, err := formValues(r)
	if err != nil {
		ac.sendError(w, r, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	form := forms.BindLogin(values)
	next := values.Get("next")

	if errs := form.Validate(); errs.Any() {
		ac.renderLogin(w, r, form.Username, next, errs)
		return
	}

	user, err := ac.auth.Authenticate(form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		errs := forms.Errors{}
		errs.Add(forms.NonField, invalidLogin)
		ac.renderLogin(w, r, form.Username, next, errs)
		return
	}
	if err != nil {
		ac.handleError(w, r, err)
		return
	}

	if err := ac.startSession(w, user); err != nil {
		ac.handleError(w, r, err)
		return
	}
	ac.logger.Info("user logged in", zap.String("username", user.Username))
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

// Logout ends the session.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	ac.render(w, r, http.StatusOK, "users/logged_out", H{})
}

// Signup registers a user and logs them in.
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ac.render(w, r, http.StatusOK, "users/signup", H{"form": &forms.SignupForm{}, "errors": forms.Errors{}})
		return
	}

	values, err := formValues(r)
	if err != nil {
		ac.sendError(w, r, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	form := forms.BindSignup(values)

	user, errs, err := ac.auth.Register(form)
	if err != nil {
		ac.handleError(w, r, err)
		return
	}
	if errs.Any() {
		form.Password1, form.Password2 = "", ""
		ac.render(w, r, http.StatusOK, "users/signup", H{"form": form, "errors": errs})
		return
	}

	if err := ac.startSession(w, user); err != nil {
		ac.handleError(w, r, err)
		return
	}
	ac.logger.Info("user registered", zap.String("username", user.Username))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (ac *AuthController) renderLogin(w http.ResponseWriter, r *http.Request, username, next string, errs forms.Errors) {
	ac.render(w, r, http.StatusOK, "users/login", H{
		"username": username,
		"next":     next,
		"errors":   errs,
	})
}

func (ac *AuthController) startSession(w http.ResponseWriter, user *models.User) error {
	token, err := ac.auth.IssueToken(user)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(w, token, ac.auth.TTL())
	return nil
}

// safeNext only allows local paths, so a crafted next cannot send the user
// to another site after login.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
