// Command token mints a bearer token for local development against the API.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/auth"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	userID := flag.String("user", "", "user uuid (random when empty)")
	email := flag.String("email", "", "email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	// JWT_SECRET may come from .env
	_ = godotenv.Load()

	uid := uuid.New()
	if *userID != "" {
		var err error
		if uid, err = uuid.Parse(*userID); err != nil {
			log.Fatalf("invalid -user: %v", err)
		}
	}
	tok, err := auth.IssueToken(uid, *email, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	log.Printf("user=%s expires=%s", uid, time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println(tok)
}
