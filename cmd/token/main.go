// Command token prints an HS256 bearer token for POST /api/article, signed
// with AUTH_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/trendpress/trendpress/internal/tokens"
	"github.com/trendpress/trendpress/pkg/logger"
)

func main() {
	subject := flag.String("sub", "operator", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		logger.Fatalf("AUTH_JWT_SECRET is not set")
	}
	tok, err := tokens.GenerateOperatorToken(secret, *subject, *ttl)
	if err != nil {
		logger.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok)
}
