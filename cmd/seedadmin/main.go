// cmd/seedadmin/main.go
// Seeds the bootstrap admin account. Safe to run repeatedly: the insert is
// keyed on the unique email column and never overwrites an existing account.
//
// Usage:
//
//	go run ./cmd/seedadmin -email admin@example.com -username admin -password secret
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ManrajDhatt/Pet-Haven/config"
	bundb "github.com/ManrajDhatt/Pet-Haven/db"
)

func main() {
	username := flag.String("username", "", "admin username (required)")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("-username, -email and -password are all required")
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.EnsureAdmin(context.Background(), db, *username, *email, *password); err != nil {
		log.Fatal("seed admin:", err)
	}

	fmt.Printf("admin %q ensured\n", *email)
}
