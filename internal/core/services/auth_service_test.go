package services_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/services"
	"github.com/reliefdesk/grievance-service/test/mocks"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating test key: %v", err)
	}
	return key
}

func seedCredentials(t *testing.T, repo *mocks.MockUserRepository, email, password string, role domain.Role) *domain.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	p := mocks.SampleProfile("user-"+string(role), role)
	p.Email = email
	p.PasswordHash = string(hash)
	repo.SeedUser(p)
	return p
}

func TestLogin_Success(t *testing.T) {
	tests := []struct {
		role domain.Role
		want domain.Destination
	}{
		{domain.RoleAdmin, domain.DestinationDashboard},
		{domain.RoleVolunteer, domain.DestinationVolunteer},
		{domain.RoleReporter, domain.DestinationReport},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			repo := mocks.NewMockUserRepository()
			user := seedCredentials(t, repo, string(tt.role)+"@example.com", "s3cret", tt.role)
			key := testKey(t)
			redisClient := mocks.NewMockRedisClient()
			svc := services.NewAuthService(repo, key, redisClient)

			token, dest, err := svc.Login(context.Background(), user.Email, "s3cret")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dest != tt.want {
				t.Errorf("expected destination %q, got %q", tt.want, dest)
			}

			parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
				return &key.PublicKey, nil
			})
			if err != nil || !parsed.Valid {
				t.Fatalf("token does not verify: %v", err)
			}
			claims := parsed.Claims.(jwt.MapClaims)
			if claims["sub"] != user.ID {
				t.Errorf("expected sub %q, got %v", user.ID, claims["sub"])
			}
			if claims["role"] != string(tt.role) {
				t.Errorf("expected role claim %q, got %v", tt.role, claims["role"])
			}
		})
	}
}

func TestLogin_RecordsHashedSession(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	user := seedCredentials(t, repo, "jane@example.com", "s3cret", domain.RoleVolunteer)
	redisClient := mocks.NewMockRedisClient()
	svc := services.NewAuthService(repo, testKey(t), redisClient)

	token, _, err := svc.Login(context.Background(), user.Email, "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	stored, err := redisClient.Get(context.Background(), "session:"+user.ID).Result()
	if err != nil {
		t.Fatalf("no session record for %s: %v", user.ID, err)
	}
	if stored == token {
		t.Error("session record holds the raw token, expected a digest")
	}
	sum := sha256.Sum256([]byte(token))
	if stored != hex.EncodeToString(sum[:]) {
		t.Errorf("session record is not the token's sha256 digest: %q", stored)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	seedCredentials(t, repo, "jane@example.com", "right", domain.RoleReporter)
	svc := services.NewAuthService(repo, testKey(t), mocks.NewMockRedisClient())

	// Unknown email and wrong password must be indistinguishable.
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "right"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "jane@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_RepoFailureCollapsesToInvalidCredentials(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	repo.FindByEmailError = errors.New("connection refused")
	svc := services.NewAuthService(repo, testKey(t), mocks.NewMockRedisClient())

	if _, _, err := svc.Login(context.Background(), "jane@example.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_SurvivesRedisOutage(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	user := seedCredentials(t, repo, "jane@example.com", "s3cret", domain.RoleVolunteer)
	redisClient := mocks.NewMockRedisClient()
	redisClient.SetError = errors.New("redis down")
	svc := services.NewAuthService(repo, testKey(t), redisClient)

	token, dest, err := svc.Login(context.Background(), user.Email, "s3cret")
	if err != nil {
		t.Fatalf("login must succeed when session bookkeeping fails, got %v", err)
	}
	if token == "" || dest != domain.DestinationVolunteer {
		t.Errorf("unexpected result: token=%q dest=%q", token, dest)
	}
}

func TestLogout_BlacklistsToken(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	user := seedCredentials(t, repo, "jane@example.com", "s3cret", domain.RoleVolunteer)
	redisClient := mocks.NewMockRedisClient()
	svc := services.NewAuthService(repo, testKey(t), redisClient)

	token, _, err := svc.Login(context.Background(), user.Email, "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !redisClient.Has(services.BlacklistKey(token)) {
		t.Error("token was not blacklisted")
	}
	if redisClient.Has("session:" + user.ID) {
		t.Error("session record was not dropped")
	}
}

func TestLogout_RejectsForgedToken(t *testing.T) {
	svc := services.NewAuthService(mocks.NewMockUserRepository(), testKey(t), mocks.NewMockRedisClient())

	if err := svc.Logout(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
