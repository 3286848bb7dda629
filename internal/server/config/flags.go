package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/viktorkr/authapp/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-b string   user store backend ("memory", "postgres" or "dynamo")
//	-d string   PostgreSQL DSN
//	-n string   DynamoDB table name
//	-g string   DynamoDB region
//	-e string   DynamoDB base endpoint override (local emulators)
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-o string   comma-separated CORS allowed origins
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-d", "-n", "-g", "-e", "-s", "-t", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "user store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DynamoTable, "n", config.DynamoTable, "DynamoDB table name")
	fs.StringVar(&config.DynamoRegion, "g", config.DynamoRegion, "DynamoDB region")
	fs.StringVar(&config.DynamoBaseEndpoint, "e", config.DynamoBaseEndpoint, "DynamoDB base endpoint")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	corsOrigins := fs.String("o", strings.Join(config.CORSAllowedOrigins, ","), "CORS allowed origins (comma-separated)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute

	if *corsOrigins == "" {
		config.CORSAllowedOrigins = nil
	} else {
		config.CORSAllowedOrigins = strings.Split(*corsOrigins, ",")
	}
}
