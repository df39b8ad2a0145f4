package services

import (
	"errors"
	"fmt"
	"time"

	"yatube/app/forms"
	"yatube/app/models"
	"yatube/app/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "yatube"

var (
	ErrInvalidCredentials = errors.New("please enter a correct username and password")
	ErrInvalidToken       = errors.New("invalid or expired session token")
)

// AuthService registers users, checks passwords and issues session tokens.
type AuthService struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService creates a new AuthService. Tokens are signed with secret
// and expire after ttl.
func NewAuthService(users repositories.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL is how long an issued token stays valid.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// Register creates a user from a signup form. Field problems, including a
// taken username, come back as form errors.
func (s *AuthService) Register(form *forms.SignupForm) (*models.User, forms.Errors, error) {
	if errs := form.Validate(); errs.Any() {
		return nil, errs, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     form.Username,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		PasswordHash: hash,
	}
	user.BeforeCreate(s.now())
	if err := user.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid user: %w", err)
	}

	err = s.users.Create(user)
	if errors.Is(err, repositories.ErrDuplicateUsername) {
		errs := forms.Errors{}
		errs.Add("username", "A user with that username already exists.")
		return nil, errs, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil, nil
}

// Authenticate returns the user if password matches, ErrInvalidCredentials otherwise.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("session secret is empty")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies a session token and loads the user it names.
func (s *AuthService) ParseToken(tokenStr string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByUsername(claims.Subject)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
