package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/summarly/summarly-backend/internal/auth"
)

// Dev helper: mints an access token for a known user id without going
// through the login endpoint.
func main() {
	var (
		userID   = flag.String("user-id", "", "User ID (uuid)")
		email    = flag.String("email", "test@example.com", "User email")
		username = flag.String("username", "testuser", "Username")
		role     = flag.String("role", "user", "User role")
	)
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user-id is required")
	}

	_ = godotenv.Load()
	secret := os.Getenv("SUMMARLY_JWT_SECRET")
	if secret == "" {
		secret = "change-me-in-production"
	}

	jwtService := auth.NewJWTService(secret, "summarly-backend")
	token, err := jwtService.GenerateAccessToken(*userID, *email, *username, *role)
	if err != nil {
		log.Fatal("Failed to generate token:", err)
	}

	fmt.Printf("Access token for %s:\n%s\n", *email, token)
}
