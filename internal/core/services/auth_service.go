package services

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/crypto/bcrypt"

	"github.com/reliefdesk/grievance-service/internal/config"
	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

const sessionTTL = 24 * time.Hour

type AuthService struct {
	userRepo   ports.UserRepository
	privateKey *rsa.PrivateKey
	redis      ports.RedisClient
	redisCB    *gobreaker.CircuitBreaker
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(userRepo ports.UserRepository, privateKey *rsa.PrivateKey, redisClient ports.RedisClient) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		privateKey: privateKey,
		redis:      redisClient,
		redisCB:    config.NewCircuitBreaker("Redis-Sessions"),
	}
}

// Login verifies the password against the stored bcrypt hash, signs a session
// token, and records the session in Redis. Every failure on the credential
// path collapses to ErrInvalidCredentials so the response does not reveal
// whether the email is registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Destination, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return "", "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", domain.ErrInvalidCredentials
	}

	role := domain.NormalizeRole(string(user.Role))

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(sessionTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", "", err
	}

	// Session bookkeeping is best-effort: a Redis outage must not lock users
	// out, the token alone is enough to authenticate.
	if _, err := s.redisCB.Execute(func() (interface{}, error) {
		return nil, s.redis.Set(ctx, sessionKey(user.ID), hashToken(token), sessionTTL).Err()
	}); err != nil {
		log.Printf("auth: failed to record session for %s: %v", user.ID, err)
	}

	return token, domain.DestinationFor(role), nil
}

// Logout drops the session record and blacklists the token hash for the rest
// of its lifetime, so a stolen token cannot be replayed after sign-out.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return &s.privateKey.PublicKey, nil
	})
	if err != nil || !parsed.Valid {
		return domain.ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.ErrInvalidCredentials
	}
	userID, _ := claims["sub"].(string)

	_, err = s.redisCB.Execute(func() (interface{}, error) {
		if userID != "" {
			if err := s.redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
				return nil, err
			}
		}
		return nil, s.redis.Set(ctx, BlacklistKey(token), "1", sessionTTL).Err()
	})
	if err != nil {
		return errors.New("logout failed, try again")
	}
	return nil
}

func sessionKey(userID string) string {
	return "session:" + userID
}

// hashToken stores a digest instead of the raw token so a leaked session
// record cannot be replayed as a credential.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// BlacklistKey derives the Redis key under which a revoked token is parked.
// Exported because the auth middleware checks the same key on every request.
func BlacklistKey(token string) string {
	return "blacklist:" + hashToken(token)
}
