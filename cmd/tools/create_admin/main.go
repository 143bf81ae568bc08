// Command create_admin seeds the initial administrator account after a
// bootstrap run.
//
// Usage:
//
//	go run cmd/tools/create_admin/main.go -email admin@example.com -password <pw>
//
// Requires DATABASE_URL environment variable to be set. The command is
// idempotent: an existing account with the same email is left untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/callgrid/platform-bootstrap/internal/db"
)

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "", "Admin account email (required)")
	password := flag.String("password", "", "Admin account password (required)")
	cost := flag.Int("bcrypt-cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -email and -password are required")
		flag.Usage()
		os.Exit(2)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	existing, err := database.GetUserByEmail(ctx, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	if existing != nil {
		fmt.Printf("Admin %s already exists (id %s), nothing to do\n", existing.Email, existing.ID)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	user, err := database.CreateAdminUser(ctx, *email, string(hash))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created admin %s (id %s)\n", user.Email, user.ID)
}
