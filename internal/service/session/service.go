// Package session resolves shopper bearer tokens to user ids.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"time"

	"storefront-admin/internal/domain"
	tokenrepo "storefront-admin/internal/repository/token"
)

// DefaultTTL is the lifetime of issued sessions.
const DefaultTTL = 30 * 24 * time.Hour

type Service struct {
	repo   tokenrepo.Repository
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
}

func New(repo tokenrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, ttl: DefaultTTL, now: time.Now, logger: logger}
}

// Issue stores a fresh random token for the user.
func (s *Service) Issue(ctx context.Context, userID string) (string, error) {
	expiresAt := s.now().Add(s.ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = s.repo.Create(ctx, tokenrepo.Session{Token: token, UserID: userID, ExpiresAt: expiresAt})
		if err == nil {
			s.logger.Printf("session: issued user_id=%s expires_at=%s", userID, expiresAt.Format(time.RFC3339))
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

// Resolve returns the user bound to a live token. Expired tokens are deleted.
func (s *Service) Resolve(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	sess, err := s.repo.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("session: resolve error=%v", err)
		}
		return "", false
	}
	if s.now().After(sess.ExpiresAt) {
		_ = s.repo.Delete(ctx, token)
		return "", false
	}
	return sess.UserID, true
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
