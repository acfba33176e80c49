package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failure modes. Callers branch on these to pick a response.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrNotRefreshable = errors.New("token not refreshable")
)

// Service issues and verifies signed bearer tokens. Tokens are stateless:
// validity is signature plus expiry, nothing is stored server side. The token
// string is opaque to every other package.
type Service struct {
	secret       []byte
	ttl          time.Duration
	refreshGrace time.Duration
	now          func() time.Time
}

func NewService(secret []byte, ttl, refreshGrace time.Duration) *Service {
	return &Service{
		secret:       secret,
		ttl:          ttl,
		refreshGrace: refreshGrace,
		now:          time.Now,
	}
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue signs a token for the given user and returns it together with its
// lifetime in seconds.
func (s *Service) Issue(userID uint) (string, int64, error) {
	now := s.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, int64(s.ttl.Seconds()), nil
}

// Verify checks signature and expiry and resolves the subject user id.
func (s *Service) Verify(tokenString string) (uint, error) {
	c, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}
	return subjectID(c)
}

// Refresh issues a fresh token for the subject of a still-acceptable token.
// By default only currently valid tokens qualify; a positive grace window
// additionally accepts tokens expired no longer than that window ago.
func (s *Service) Refresh(tokenString string) (string, int64, error) {
	userID, err := s.Verify(tokenString)
	switch {
	case err == nil:
	case errors.Is(err, ErrExpiredToken) && s.refreshGrace > 0:
		userID, err = s.expiredWithinGrace(tokenString)
		if err != nil {
			return "", 0, ErrNotRefreshable
		}
	default:
		return "", 0, ErrNotRefreshable
	}
	return s.Issue(userID)
}

// Invalidate is the logout hook. Tokens are stateless, so there is nothing to
// revoke server side; the client discards its copy. The token is still
// verified so an unauthenticated caller cannot obtain a logout acknowledgment.
func (s *Service) Invalidate(tokenString string) error {
	_, err := s.Verify(tokenString)
	return err
}

func (s *Service) parse(tokenString string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	return &c, nil
}

// expiredWithinGrace re-parses without expiry validation, so the signature is
// still enforced, and checks the token expired inside the grace window.
func (s *Service) expiredWithinGrace(tokenString string) (uint, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return 0, ErrInvalidToken
	}
	if c.ExpiresAt == nil || s.now().After(c.ExpiresAt.Time.Add(s.refreshGrace)) {
		return 0, ErrNotRefreshable
	}
	return subjectID(&c)
}

func subjectID(c *claims) (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
