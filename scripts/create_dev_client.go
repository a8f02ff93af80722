package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Client struct {
	ID                      string `gorm:"primaryKey"`
	Name                    string `gorm:"not null"`
	Secret                  string `gorm:"not null"`
	UserID                  uint
	RedirectURIs            string
	Scopes                  string
	Active                  bool
	SubscriptionPlan        string
	SubscriptionActive      bool
	SubscriptionPeriodEnd   time.Time
	PlatformRevenueShareBps int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (Client) TableName() string {
	return "clients"
}

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string
	Name      string
	Role      string `gorm:"default:'user'"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func main() {
	// Parse command line flags
	role := flag.String("role", "admin", "User role (admin or user)")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open("social_wallet.sqlite"), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Determine client credentials based on role
	var clientID, clientSecret string
	if *role == "user" {
		clientID = "user-client"
		clientSecret = "user-secret-123"
	} else {
		clientID = "dev-client"
		clientSecret = "dev-secret-123"
	}

	// Check if client already exists
	var existing Client
	if err := db.Where("id = ?", clientID).First(&existing).Error; err == nil {
		fmt.Printf("Development client already exists for role '%s'!\n", *role)
		fmt.Printf("Client ID: %s\n", clientID)
		fmt.Printf("Client Secret: %s\n", clientSecret)
		return
	}

	// Get or create user with specified role
	userID := getUserIDForRole(db, *role)
	if userID == 0 {
		log.Fatal("Failed to get user ID for role:", *role)
	}

	// Create new client
	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash secret:", err)
	}

	client := Client{
		ID:                      clientID,
		Secret:                  string(hash),
		Name:                    fmt.Sprintf("Development %s Client", *role),
		UserID:                  userID,
		RedirectURIs:            "http://localhost:3000/callback",
		Scopes:                  "profile media",
		Active:                  true,
		SubscriptionPlan:        "basic",
		SubscriptionActive:      true,
		SubscriptionPeriodEnd:   time.Now().AddDate(0, 1, 0),
		PlatformRevenueShareBps: 1000,
		CreatedAt:               time.Now(),
		UpdatedAt:               time.Now(),
	}

	if err := db.Create(&client).Error; err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("✓ Development client created for role '%s'!\n", *role)
	fmt.Printf("Client ID: %s\n", clientID)
	fmt.Printf("Client Secret: %s\n", clientSecret)
	fmt.Printf("User ID: %d\n", userID)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl 'http://localhost:8080/oauth/authorize?client_id=%s&redirect_uri=http://localhost:3000/callback&scope=profile'\n", clientID)
	fmt.Printf("curl -X POST http://localhost:8080/oauth/token \\\n")
	fmt.Printf("  -d 'grant_type=authorization_code' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", clientID)
	fmt.Printf("  -d 'client_secret=%s' \\\n", clientSecret)
	fmt.Printf("  -d 'code=<code>' -d 'redirect_uri=http://localhost:3000/callback'\n")
}

// getUserIDForRole gets or creates a user with the specified role
func getUserIDForRole(db *gorm.DB, role string) uint {
	var user User
	email := fmt.Sprintf("%s@socialwallet.dev", role)

	// Try to find existing user
	if err := db.Where("email = ?", email).First(&user).Error; err == nil {
		fmt.Printf("Found existing user: %s (ID: %d, Role: %s)\n", user.Email, user.ID, user.Role)
		return user.ID
	}

	// Create new user
	hash, _ := bcrypt.GenerateFromPassword([]byte("devpassword"), bcrypt.DefaultCost)
	user = User{
		Email:     email,
		Password:  string(hash),
		Name:      fmt.Sprintf("%s User", role),
		Role:      role,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		return 0
	}

	fmt.Printf("Created new user: %s (ID: %d, Role: %s)\n", user.Email, user.ID, user.Role)
	return user.ID
}
