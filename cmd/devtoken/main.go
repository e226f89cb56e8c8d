package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jelajah/tour-booking-backend/internal/utils"
	"github.com/jelajah/tour-booking-backend/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	var (
		newSecret bool
		userID    string
		email     string
		role      string
		ttl       time.Duration
	)
	flag.BoolVar(&newSecret, "new-secret", false, "print a fresh JWT_SECRET and exit")
	flag.StringVar(&userID, "user", "demo-user", "user_id claim")
	flag.StringVar(&email, "email", "", "email claim")
	flag.StringVar(&role, "role", jwt.RoleUser, "role claim: USER or AGENT")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if newSecret {
		secret, err := utils.GenerateSecret(32)
		if err != nil {
			log.Fatalf("Failed to generate secret: %v", err)
		}
		fmt.Printf("JWT_SECRET=%s\n", secret)
		return
	}

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set (run with -new-secret to create one)")
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "jelajah"
	}
	if role != jwt.RoleUser && role != jwt.RoleAgent {
		log.Fatalf("unknown role %q", role)
	}

	token, err := jwt.NewService(secret, issuer, ttl).GenerateAccessToken(userID, email, role)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
