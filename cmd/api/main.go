package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/reliefdesk/grievance-service/internal/adapters/handler"
	"github.com/reliefdesk/grievance-service/internal/adapters/middleware"
	"github.com/reliefdesk/grievance-service/internal/adapters/repository"
	"github.com/reliefdesk/grievance-service/internal/config"
	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/services"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Authenticated with Redis successfully")

	userRepo := repository.NewUserRepository(db)
	grievanceRepo := repository.NewGrievanceRepository(db, cfg.QueueName)

	resolver := services.NewSessionResolver(userRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTPrivateKey, redisClient)
	registrationService := services.NewRegistrationService(userRepo)
	grievanceService := services.NewGrievanceService(grievanceRepo)
	trackingService := services.NewTrackingService(grievanceRepo)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, redisClient)

	authHandler := handler.NewAuthHandler(authService, resolver)
	signupHandler := handler.NewSignupHandler(registrationService)
	grievanceHandler := handler.NewGrievanceHandler(grievanceService)
	trackHandler := handler.NewTrackHandler(trackingService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	anyRole := []string{string(domain.RoleAdmin), string(domain.RoleVolunteer), string(domain.RoleReporter)}
	staffRoles := []string{string(domain.RoleAdmin), string(domain.RoleVolunteer)}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)
	mux.Handle("/metrics", promhttp.Handler())

	// Auth surface
	mux.HandleFunc("/login", authHandler.Login)
	mux.HandleFunc("/signup", signupHandler.Signup)
	mux.HandleFunc("/session", authMiddleware.Identify(authHandler.Session))
	mux.HandleFunc("/logout", authMiddleware.RequireRole(anyRole, authHandler.Logout))

	// Grievance surface: anyone signed in can file, staff can browse and act,
	// tracking is public by id.
	mux.HandleFunc("/grievances", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authMiddleware.RequireRole(anyRole, grievanceHandler.Grievances)(w, r)
			return
		}
		authMiddleware.RequireRole(staffRoles, grievanceHandler.Grievances)(w, r)
	})
	mux.HandleFunc("/grievances/assign", authMiddleware.RequireRole(staffRoles, grievanceHandler.Assign))
	mux.HandleFunc("/grievances/resolve", authMiddleware.RequireRole(staffRoles, grievanceHandler.Resolve))
	mux.HandleFunc("/track", trackHandler.Track)

	root := middleware.CORSMiddleware(cfg.AllowedOrigins)(middleware.Metrics(mux))

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, root); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
