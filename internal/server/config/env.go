package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays environment variables onto the Config. Only variables
// that are actually set override earlier layers; env.Parse leaves the rest
// untouched.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
