// Command gentoken prints a bearer token accepted by the board service, for local use.
package main

import (
	"flag"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"workboard/internal/auth"
	"workboard/internal/config"
)

func main() {
	cfg := config.Load()

	var (
		userID    = flag.String("user", "dev-user", "user id to put in the token")
		ttl       = flag.Duration("ttl", 24*time.Hour, "token lifetime")
		secret    = flag.String("secret", cfg.JWTSecret, "signing secret, defaults to JWT_SECRET")
		superuser = flag.Bool("superuser", false, "allow editing every task field")
	)
	flag.Parse()

	if *ttl <= 0 {
		log.Fatal("ttl must be positive")
	}

	token, err := auth.GenerateIdentityToken(*secret, auth.Identity{UserID: *userID, Superuser: *superuser}, *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Print(token)
}
