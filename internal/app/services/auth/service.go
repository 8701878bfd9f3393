// Package auth verifies credentials and issues stateless session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/profitlens/profitlens/internal/app/domain/user"
	"github.com/profitlens/profitlens/internal/app/storage"
	"github.com/profitlens/profitlens/pkg/logger"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidCredentials is returned for unknown usernames and password
	// mismatches alike, so callers cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSession covers malformed tokens, bad signatures, and expiry.
	ErrInvalidSession = errors.New("invalid session token")
)

// dummyHash is compared against when the username is unknown so both
// rejection paths cost one bcrypt verification.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("profitlens-dummy"), bcrypt.DefaultCost)
	return h
}()

// Claims carries the verified user identity inside a session token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service implements credential verification and session issuance.
type Service struct {
	users  storage.UserStore
	secret []byte
	log    *logger.Logger
	now    func() time.Time
}

// New constructs an auth service signing sessions with the given secret.
func New(users storage.UserStore, secret string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &Service{
		users:  users,
		secret: []byte(secret),
		log:    log,
		now:    time.Now,
	}
}

// Bootstrap creates the default account if it does not exist yet. It is
// idempotent and safe to run on every process start.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	if _, err := s.users.CreateUser(ctx, user.User{Username: username, PasswordHash: string(hash)}); err != nil {
		return fmt.Errorf("create bootstrap user: %w", err)
	}
	s.log.WithFields(map[string]interface{}{"username": username}).Info("created default account")
	return nil
}

// VerifyCredentials checks a username/password pair. The rejection shape and
// cost are identical for unknown usernames and wrong passwords.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (user.User, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return user.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// IssueSession mints a signed token asserting the user's identity for the
// next seven days. Sessions are stateless; nothing is stored server-side.
func (s *Service) IssueSession(u user.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			Issuer:    "profitlens",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifySession validates a token and returns its claims. It fails closed:
// any signature mismatch, malformed token, or past expiry yields
// ErrInvalidSession.
func (s *Service) VerifySession(tokenString string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return Claims{}, ErrInvalidSession
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Claims{}, ErrInvalidSession
	}
	return *claims, nil
}
