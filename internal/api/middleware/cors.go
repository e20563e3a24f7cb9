package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps the router so browser clients on other origins can call the API.
func CORS(h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(h)
}
