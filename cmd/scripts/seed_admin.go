// Command seed_admin creates an admin operator account so the protected
// /admin routes can be used. Usage:
//
//	go run ./cmd/scripts -email ops@example.com -password secret [-role admin]
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/internal/config"
	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
	mongorepo "github.com/ByteToHex/vrf-lottery-backend/internal/repositories/mongodb"
	"github.com/ByteToHex/vrf-lottery-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	role := flag.String("role", "admin", "admin role")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	client, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	repo := mongorepo.NewAdminUserRepository(client.Database(cfg.MongoDB.Database))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := &models.AdminUser{
		Email:    *email,
		Password: string(hashed),
		Role:     *role,
	}
	if err := repo.Create(ctx, user); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}
	log.Printf("admin user %s created", *email)
}
