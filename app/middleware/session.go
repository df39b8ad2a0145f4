package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"yatube/app/models"

	"go.uber.org/zap"
)

// SessionCookie holds the signed session token.
const SessionCookie = "yatube_session"

// LoginURL is where RequireLogin sends anonymous visitors.
const LoginURL = "/auth/login/"

type contextKey int

const userKey contextKey = iota

// TokenParser resolves a session token to its user.
type TokenParser interface {
	ParseToken(token string) (*models.User, error)
}

// WithUser returns a copy of ctx carrying user as the current actor.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the actor of the request, or nil when anonymous.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

// Session resolves the session cookie into the current user. A missing or
// bad token leaves the request anonymous.
func Session(parser TokenParser, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := parser.ParseToken(cookie.Value)
			if err != nil {
				logger.Debug("ignoring session cookie", zap.Error(err))
				ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireLogin redirects anonymous requests to the login page with a next
// parameter pointing back at the requested URL.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) == nil {
			http.Redirect(w, r, LoginRedirect(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginRedirect builds the login URL that returns to next afterwards.
func LoginRedirect(next string) string {
	return LoginURL + "?" + url.Values{"next": {next}}.Encode()
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
