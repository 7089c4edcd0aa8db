package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/vahango/rental-gateway/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Secret Generator for Vahango Rental Gateway")
	fmt.Println("===========================================")
	fmt.Println()

	accessSecret, refreshSecret, err := utils.GenerateJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	adminKey, err := utils.GenerateSecret(32)
	if err != nil {
		log.Fatalf("Failed to generate admin key: %v", err)
	}
	adminKeyHash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin key: %v", err)
	}

	fmt.Println("✅ Secrets generated successfully!")
	fmt.Println()
	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
	fmt.Printf("ADMIN_KEY_HASH=%s\n", string(adminKeyHash))
	fmt.Println()
	fmt.Println("Give this key to the admin frontend (sent as X-Admin-Key):")
	fmt.Println()
	fmt.Printf("ADMIN_KEY=%s\n", adminKey)
	fmt.Println()
	fmt.Println("⚠️  IMPORTANT: Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
