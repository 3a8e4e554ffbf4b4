// Command issuetoken signs an access token for a member. Members have no
// password login; an operator issues their tokens with this tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"mitramandal-backend/internal/config"
	"mitramandal-backend/internal/security"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	memberID := flag.String("member", "", "Member ID the token is issued to")
	mobile := flag.String("mobile", "", "Member mobile number carried in the token")
	roles := flag.String("roles", security.RoleMember, "Comma separated roles")
	ttl := flag.Duration("ttl", 0, "Token lifetime; defaults to jwt.access_token_expiry_minutes")
	flag.Parse()

	if *memberID == "" {
		log.Fatal("-member is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lifetime := cfg.AccessTokenTTL()
	if *ttl > 0 {
		lifetime = *ttl
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, err := security.NewTokenManager(cfg.JWT.Secret, lifetime).
		GenerateAccessToken(*memberID, *mobile, roleList)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
	log.Printf("token for %s expires at %s", *memberID, time.Now().Add(lifetime).UTC().Format(time.RFC3339))
}
