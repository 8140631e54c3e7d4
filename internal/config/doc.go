// Package config loads dhframe configuration.
//
// Values come, in increasing precedence, from built-in defaults, a config
// file (dhframe.yaml, .json or .toml in the working directory, or the file
// passed with --config), DHFRAME_* environment variables and command-line
// flags. Nested keys map to environment variables with "." replaced by "_":
//
//	server.port          DHFRAME_SERVER_PORT
//	session.idle_timeout DHFRAME_SESSION_IDLE_TIMEOUT
//
// DEEPHAVEN_ST_URL is honoured as a fallback for base_url.
package config
