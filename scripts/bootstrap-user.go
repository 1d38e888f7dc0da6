// Command bootstrap-user seeds an initial user account, for fresh deploys
// and local development. It talks to PostgreSQL directly over database/sql
// so it can run before the API server exists.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/textgate/textgate/internal/auth"
)

type output struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		name        = flag.String("name", "operator", "User name")
		email       = flag.String("email", "operator@textgate.local", "User email")
		password    = flag.String("password", "", "User password (required)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open database:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	userID := ulid.Make().String()

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, *name, *email, hash, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			fmt.Fprintf(os.Stderr, "user with email %s already exists\n", *email)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "insert user:", err)
		os.Exit(1)
	}

	if *format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output{UserID: userID, Name: *name, Email: *email})
		return
	}

	fmt.Println("user created")
	fmt.Println("  id:   ", userID)
	fmt.Println("  name: ", *name)
	fmt.Println("  email:", *email)
}
