// Command token mints a bearer token for local use against the console API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/scentwork/partner-console/internal/auth"
	"github.com/scentwork/partner-console/internal/config"
	"github.com/scentwork/partner-console/internal/domain"
)

func main() {
	subject := flag.String("sub", "", "subject id (ambassador id or admin name)")
	role := flag.String("role", string(domain.RoleAmbassador), "ADMIN or AMBASSADOR")
	ttl := flag.Int("ttl", 0, "lifetime in minutes; defaults to AUTH_ACCESS_TOKEN_TTL_MINUTES")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	minutes := cfg.Auth.AccessTokenTTLMinutes
	if *ttl > 0 {
		minutes = *ttl
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, minutes)
	token, expiresAt, err := tokens.GenerateToken(*subject, domain.Role(strings.ToUpper(*role)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
}
