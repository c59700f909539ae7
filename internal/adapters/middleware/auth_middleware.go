package middleware

import (
	"context"
	"crypto/rsa"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
	"github.com/reliefdesk/grievance-service/internal/core/services"
)

type AuthMiddleware struct {
	publicKey   *rsa.PublicKey
	redisClient ports.RedisClient
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, redisClient ports.RedisClient) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey:   publicKey,
		redisClient: redisClient,
	}
}

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// UserID returns the authenticated user's id stashed by the middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Role returns the authenticated user's role label stashed by the middleware.
func Role(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// RequireRole rejects requests whose token is missing, invalid, revoked, or
// carries a role outside the allowed set. Role labels are normalized before
// comparison so the legacy reporter alias keeps working.
func (m *AuthMiddleware) RequireRole(roles []string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := m.identity(r)
		if !ok {
			http.Error(w, "invalid or missing token", http.StatusUnauthorized)
			return
		}

		allowed := false
		cur := domain.NormalizeRole(role)
		for _, want := range roles {
			if cur == domain.NormalizeRole(want) {
				allowed = true
				break
			}
		}
		if !allowed {
			log.Printf("Role mismatch: required one of %v, got %s", roles, cur)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next(w, r.WithContext(WithIdentity(r.Context(), userID, string(cur))))
	}
}

// Identify parses the token when one is present but never rejects: handlers
// behind it serve both signed-in and anonymous callers. The session endpoint
// uses this to send token-less visitors to the login surface.
func (m *AuthMiddleware) Identify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userID, role, ok := m.identity(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), userID, string(domain.NormalizeRole(role))))
		}
		next(w, r)
	}
}

// WithIdentity stashes an authenticated identity on the context. Exposed so
// tests can exercise handlers without minting tokens.
func WithIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func (m *AuthMiddleware) identity(r *http.Request) (userID, role string, ok bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		log.Printf("Invalid Authorization header format")
		return "", "", false
	}
	tokenString := parts[1]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.publicKey, nil
	})
	if err != nil || !token.Valid {
		log.Printf("Token parse error: %v", err)
		return "", "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", false
	}

	userID, ok = claims["sub"].(string)
	if !ok || userID == "" {
		log.Printf("Missing or invalid 'sub' claim: %v", claims["sub"])
		return "", "", false
	}

	role, ok = claims["role"].(string)
	if !ok || role == "" {
		log.Printf("Missing or invalid 'role' claim: %v", claims["role"])
		return "", "", false
	}

	if m.revoked(r.Context(), tokenString) {
		log.Printf("Rejected revoked token for user %s", userID)
		return "", "", false
	}

	return userID, role, true
}

// revoked checks the logout blacklist. A Redis failure fails open: the token
// signature already proved authenticity and sessions are short-lived.
func (m *AuthMiddleware) revoked(ctx context.Context, token string) bool {
	if m.redisClient == nil {
		return false
	}
	n, err := m.redisClient.Exists(ctx, services.BlacklistKey(token)).Result()
	if err != nil {
		log.Printf("blacklist check failed: %v", err)
		return false
	}
	return n > 0
}
