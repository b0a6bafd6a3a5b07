package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is applied by Issue when the caller passes a zero ttl.
const DefaultTTL = 30 * time.Minute

var ErrMissingSecret = errors.New("signing secret is not configured")
var ErrInvalidToken = errors.New("invalid credentials")

// Service issues and verifies HS256 bearer tokens. Token validity is
// entirely signature plus expiry; there is no server-side session state.
type Service struct {
	secret []byte
}

type Claims struct {
	jwt.RegisteredClaims
}

func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Service{secret: []byte(secret)}, nil
}

// Issue signs a token carrying subject that expires after ttl.
func (s *Service) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the subject claim.
// Malformed, tampered and expired tokens all fail identically so the
// caller cannot tell which check rejected the token.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

type subjectKey struct{}

// Require rejects the request with a bearer challenge unless a valid
// token is attached. The verified subject is placed on the request
// context before next runs, so no store access happens for rejected
// requests.
func (s *Service) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			challenge(w)
			return
		}

		subject, err := s.Verify(parts[1])
		if err != nil {
			challenge(w)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), subjectKey{}, subject)))
	}
}

// Subject returns the verified subject stored by Require, or "" when
// the request never passed the middleware.
func Subject(r *http.Request) string {
	subject, _ := r.Context().Value(subjectKey{}).(string)
	return subject
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "invalid credentials", http.StatusUnauthorized)
}
