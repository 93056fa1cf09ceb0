// Package server holds the HTTP server configuration.
//
// While the start command handles the server lifecycle, this package defines
// the listen port, request body limit and per-client rate limiting settings.
package server
