package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/viktorkr/authapp/internal/flagx"
	"github.com/viktorkr/authapp/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	StoreBackend                string         `json:"store_backend"`
	DatabaseDSN                 string         `json:"database_dsn"`
	DynamoTable                 string         `json:"dynamo_table"`
	DynamoRegion                string         `json:"dynamo_region"`
	DynamoBaseEndpoint          string         `json:"dynamo_base_endpoint"`
	DynamoAccessKeyID           string         `json:"dynamo_access_key_id"`
	DynamoSecretAccessKey       string         `json:"dynamo_secret_access_key"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults, environment
// variables and command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.StoreBackend = c.StoreBackend
	config.DatabaseDSN = c.DatabaseDSN
	config.DynamoTable = c.DynamoTable
	config.DynamoRegion = c.DynamoRegion
	config.DynamoBaseEndpoint = c.DynamoBaseEndpoint
	config.DynamoAccessKeyID = c.DynamoAccessKeyID
	config.DynamoSecretAccessKey = c.DynamoSecretAccessKey
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.CORSAllowedOrigins = c.CORSAllowedOrigins
}
