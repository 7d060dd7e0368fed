// Package config loads the server configuration from defaults, an optional
// config.yaml, a .env file and STREETCODE_* environment variables, and
// validates it before anything else starts.
package config
